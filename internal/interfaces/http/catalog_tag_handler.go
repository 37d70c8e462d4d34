package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Sucursales-api/internal/application/dto"
	"github.com/jhoicas/Sucursales-api/internal/application/usecase"
)

// CatalogTagHandler maneja marcas o tipos; kind fija cuál de los dos.
type CatalogTagHandler struct {
	uc   *usecase.CatalogTagUseCase
	kind string
}

// NewCatalogTagHandler construye el handler para un tipo de etiqueta (entity.TagBrand o entity.TagType).
func NewCatalogTagHandler(uc *usecase.CatalogTagUseCase, kind string) *CatalogTagHandler {
	return &CatalogTagHandler{uc: uc, kind: kind}
}

// List godoc
// @Summary      Listar marcas o tipos
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.TagResponse
// @Router       /api/brands [get]
// @Router       /api/types [get]
func (h *CatalogTagHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), h.kind)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear marca o tipo
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TagRequest  true  "name"
// @Success      201   {object}  dto.TagResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/brands [post]
// @Router       /api/types [post]
func (h *CatalogTagHandler) Create(c *fiber.Ctx) error {
	var in dto.TagRequest
	if err := bindJSON(c, &in); err != nil {
		return handled(err)
	}
	out, err := h.uc.Create(c.UserContext(), GetPrincipal(c), h.kind, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Renombrar marca o tipo
// @Description  Renombrar una marca actualiza los productos que la usan.
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID"
// @Param        body  body  dto.TagRequest  true  "name"
// @Success      200   {object}  dto.TagResponse
// @Router       /api/brands/{id} [put]
// @Router       /api/types/{id} [put]
func (h *CatalogTagHandler) Update(c *fiber.Ctx) error {
	var in dto.TagRequest
	if err := bindJSON(c, &in); err != nil {
		return handled(err)
	}
	out, err := h.uc.Update(c.UserContext(), GetPrincipal(c), h.kind, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar marca o tipo
// @Tags         catalog
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/brands/{id} [delete]
// @Router       /api/types/{id} [delete]
func (h *CatalogTagHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetPrincipal(c), h.kind, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "eliminado"})
}
