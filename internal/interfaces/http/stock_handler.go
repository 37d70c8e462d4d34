package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Sucursales-api/internal/application/dto"
	"github.com/jhoicas/Sucursales-api/internal/application/inventory"
)

// StockHandler expone el historial de movimientos y el reporte de stock por sucursal.
type StockHandler struct {
	uc *inventory.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Movements godoc
// @Summary      Movimientos de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        branchId  query  string  false  "Sucursal destino"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) Movements(c *fiber.Ctx) error {
	list, err := h.uc.ListMovements(c.UserContext(), GetPrincipal(c), c.Query("branchId"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMovementResponse(m))
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Reporte de stock por sucursal
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  inventory.BranchStockReport
// @Router       /api/stock/reports/stock [get]
func (h *StockHandler) Report(c *fiber.Ctx) error {
	out, err := h.uc.StockReport(c.UserContext(), GetPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
