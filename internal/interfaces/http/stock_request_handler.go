package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Sucursales-api/internal/application/dto"
	"github.com/jhoicas/Sucursales-api/internal/application/stockrequest"
	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
)

// StockRequestHandler maneja las solicitudes de reposición de las sucursales.
type StockRequestHandler struct {
	uc *stockrequest.UseCase
}

// NewStockRequestHandler construye el handler.
func NewStockRequestHandler(uc *stockrequest.UseCase) *StockRequestHandler {
	return &StockRequestHandler{uc: uc}
}

// Create godoc
// @Summary      Crear solicitud de stock
// @Description  La sucursal sale del token del admin de sucursal.
// @Tags         stock-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockRequestRequest  true  "items, notes"
// @Success      201   {object}  dto.StockRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock-requests [post]
func (h *StockRequestHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockRequestRequest
	if err := bindJSON(c, &in); err != nil {
		return handled(err)
	}
	items := make([]entity.StockRequestItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, entity.StockRequestItem(it))
	}
	req, err := h.uc.Create(c.UserContext(), GetPrincipal(c), stockrequest.CreateInput{Items: items, Notes: in.Notes})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toStockRequestResponse(req))
}

// List godoc
// @Summary      Listar solicitudes de stock
// @Tags         stock-requests
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StockRequestResponse
// @Router       /api/stock-requests [get]
func (h *StockRequestHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext(), GetPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.StockRequestResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toStockRequestResponse(r))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener solicitud de stock
// @Tags         stock-requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.StockRequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-requests/{id} [get]
func (h *StockRequestHandler) GetByID(c *fiber.Ctx) error {
	req, err := h.uc.Get(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toStockRequestResponse(req))
}

// Approve godoc
// @Summary      Aprobar solicitud y transferir el stock
// @Tags         stock-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.NotesRequest  false  "notes"
// @Success      200   {object}  dto.StockRequestResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock-requests/{id}/approve [put]
func (h *StockRequestHandler) Approve(c *fiber.Ctx) error {
	return h.withNotes(c, h.uc.Approve)
}

// Reject godoc
// @Summary      Rechazar solicitud
// @Tags         stock-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.NotesRequest  false  "notes"
// @Success      200   {object}  dto.StockRequestResponse
// @Router       /api/stock-requests/{id}/reject [put]
func (h *StockRequestHandler) Reject(c *fiber.Ctx) error {
	return h.withNotes(c, h.uc.Reject)
}

// Fulfill godoc
// @Summary      Completar solicitud
// @Tags         stock-requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.StockRequestResponse
// @Router       /api/stock-requests/{id}/fulfill [put]
func (h *StockRequestHandler) Fulfill(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Fulfill)
}

// MarkDeliveredUnpaid godoc
// @Summary      Marcar entregada sin pagar
// @Tags         stock-requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.StockRequestResponse
// @Router       /api/stock-requests/{id}/delivered-unpaid [put]
func (h *StockRequestHandler) MarkDeliveredUnpaid(c *fiber.Ctx) error {
	return h.transition(c, h.uc.MarkDeliveredUnpaid)
}

// MarkFulfilled godoc
// @Summary      Marcar pagada
// @Tags         stock-requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.StockRequestResponse
// @Router       /api/stock-requests/{id}/mark-fulfilled [put]
func (h *StockRequestHandler) MarkFulfilled(c *fiber.Ctx) error {
	return h.transition(c, h.uc.MarkFulfilled)
}

// Remito godoc
// @Summary      Descargar remito PDF
// @Tags         stock-requests
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {file}  file
// @Router       /api/stock-requests/{id}/remito [get]
func (h *StockRequestHandler) Remito(c *fiber.Ctx) error {
	doc, filename, err := h.uc.Remito(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Attachment(filename)
	return c.Send(doc)
}

type transitionFunc func(ctx context.Context, p *entity.Principal, id string) (*entity.StockRequest, error)

type notesTransitionFunc func(ctx context.Context, p *entity.Principal, id, notes string) (*entity.StockRequest, error)

func (h *StockRequestHandler) transition(c *fiber.Ctx, fn transitionFunc) error {
	req, err := fn(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toStockRequestResponse(req))
}

// withNotes acepta body vacío: las notas son opcionales.
func (h *StockRequestHandler) withNotes(c *fiber.Ctx, fn notesTransitionFunc) error {
	var in dto.NotesRequest
	if len(c.Body()) > 0 {
		if err := bindJSON(c, &in); err != nil {
			return handled(err)
		}
	}
	req, err := fn(c.UserContext(), GetPrincipal(c), c.Params("id"), in.Notes)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toStockRequestResponse(req))
}
