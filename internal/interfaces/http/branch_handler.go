package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Sucursales-api/internal/application/dto"
	"github.com/jhoicas/Sucursales-api/internal/application/inventory"
	"github.com/jhoicas/Sucursales-api/internal/application/usecase"
)

// BranchHandler maneja sucursales, su tasa de cambio y los movimientos de stock hacia ellas.
type BranchHandler struct {
	uc    *usecase.BranchUseCase
	stock *inventory.StockUseCase
}

// NewBranchHandler construye el handler.
func NewBranchHandler(uc *usecase.BranchUseCase, stock *inventory.StockUseCase) *BranchHandler {
	return &BranchHandler{uc: uc, stock: stock}
}

// Create godoc
// @Summary      Crear sucursal
// @Tags         branches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBranchRequest  true  "Datos de la sucursal"
// @Success      201   {object}  dto.BranchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/branches [post]
func (h *BranchHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBranchRequest
	if err := bindJSON(c, &in); err != nil {
		return handled(err)
	}
	out, err := h.uc.Create(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar sucursales
// @Tags         branches
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.BranchResponse
// @Router       /api/branches [get]
func (h *BranchHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener sucursal
// @Tags         branches
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sucursal"
// @Success      200  {object}  dto.BranchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/branches/{id} [get]
func (h *BranchHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar sucursal
// @Tags         branches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la sucursal"
// @Param        body  body  dto.UpdateBranchRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.BranchResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/branches/{id} [put]
func (h *BranchHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBranchRequest
	if err := bindJSON(c, &in); err != nil {
		return handled(err)
	}
	out, err := h.uc.Update(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar sucursal
// @Tags         branches
// @Security     Bearer
// @Param        id   path  string  true  "ID de la sucursal"
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/branches/{id} [delete]
func (h *BranchHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetPrincipal(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "sucursal eliminada"})
}

// UpdateExchangeRate godoc
// @Summary      Actualizar tasa de cambio
// @Tags         branches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la sucursal"
// @Param        body  body  dto.ExchangeRateRequest  true  "exchangeRate > 0"
// @Success      200   {object}  dto.BranchResponse
// @Router       /api/branches/{id}/exchange-rate [put]
func (h *BranchHandler) UpdateExchangeRate(c *fiber.Ctx) error {
	var in dto.ExchangeRateRequest
	if err := bindJSON(c, &in); err != nil {
		return handled(err)
	}
	out, err := h.uc.UpdateExchangeRate(c.UserContext(), GetPrincipal(c), c.Params("id"), in.ExchangeRate)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetProductPrices godoc
// @Summary      Precios heredados de la sucursal
// @Tags         branches
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sucursal"
// @Success      200  {array}  dto.LegacyProductPriceDTO
// @Router       /api/branches/{id}/product-prices [get]
func (h *BranchHandler) GetProductPrices(c *fiber.Ctx) error {
	out, err := h.uc.GetProductPrices(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateProductPrices godoc
// @Summary      Reemplazar precios heredados
// @Tags         branches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la sucursal"
// @Param        body  body  dto.ProductPricesRequest  true  "Lista completa de precios"
// @Success      200   {array}  dto.LegacyProductPriceDTO
// @Router       /api/branches/{id}/product-prices [put]
func (h *BranchHandler) UpdateProductPrices(c *fiber.Ctx) error {
	var in dto.ProductPricesRequest
	if err := bindJSON(c, &in); err != nil {
		return handled(err)
	}
	out, err := h.uc.UpdateProductPrices(c.UserContext(), GetPrincipal(c), c.Params("id"), in.ProductPrices)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Transfer godoc
// @Summary      Transferir stock central a la sucursal
// @Tags         branches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la sucursal"
// @Param        body  body  dto.TransferRequest  true  "productId, quantity"
// @Success      200   {object}  dto.TransferResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/branches/{id}/transfer [post]
func (h *BranchHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := bindJSON(c, &in); err != nil {
		return handled(err)
	}
	res, err := h.stock.TransferStock(c.UserContext(), GetPrincipal(c), inventory.TransferInput{
		BranchID:  c.Params("id"),
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Notes:     in.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	out := dto.TransferResponse{
		Branch:          *usecase.ToBranchResponse(res.Branch),
		CentralQuantity: res.Product.CentralQuantity,
	}
	if res.Movement != nil {
		out.MovementID = res.Movement.ID
	}
	return c.JSON(out)
}

// ManualLoad godoc
// @Summary      Carga manual de stock en la sucursal
// @Description  Las líneas inválidas se informan en errors y la respuesta es 207.
// @Tags         branches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la sucursal"
// @Param        body  body  dto.ManualLoadRequest  true  "products, notes"
// @Success      200   {object}  dto.ManualLoadResponse
// @Success      207   {object}  dto.ManualLoadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/branches/{id}/stock/manual [post]
func (h *BranchHandler) ManualLoad(c *fiber.Ctx) error {
	var in dto.ManualLoadRequest
	if err := bindJSON(c, &in); err != nil {
		return handled(err)
	}
	items := make([]inventory.LoadItem, 0, len(in.Products))
	for _, it := range in.Products {
		items = append(items, inventory.LoadItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	res, err := h.stock.LoadBranchStock(c.UserContext(), GetPrincipal(c), c.Params("id"), items, in.Notes)
	if err != nil {
		return writeError(c, err)
	}

	out := dto.ManualLoadResponse{
		Message:      "stock cargado",
		SuccessCount: res.SuccessCount,
		Branch:       *usecase.ToBranchResponse(res.Branch),
	}
	for _, e := range res.Errors {
		out.Errors = append(out.Errors, dto.ManualLoadError(e))
	}
	if res.Partial() {
		out.Message = "stock cargado con errores"
		return c.Status(fiber.StatusMultiStatus).JSON(out)
	}
	return c.JSON(out)
}
