package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Sucursales-api/internal/application/analytics"
	"github.com/jhoicas/Sucursales-api/internal/application/dto"
	"github.com/jhoicas/Sucursales-api/internal/application/inventory"
	"github.com/jhoicas/Sucursales-api/internal/application/pricing"
	"github.com/jhoicas/Sucursales-api/internal/application/usecase"
)

// ProductHandler maneja las peticiones HTTP de productos, su stock central y sus precios por sucursal.
type ProductHandler struct {
	uc     *usecase.ProductUseCase
	stock  *inventory.StockUseCase
	prices *pricing.UseCase
	sales  *analytics.SalesUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, stock *inventory.StockUseCase, prices *pricing.UseCase, sales *analytics.SalesUseCase) *ProductHandler {
	return &ProductHandler{uc: uc, stock: stock, prices: prices, sales: sales}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := bindJSON(c, &in); err != nil {
		return handled(err)
	}
	out, err := h.uc.Create(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id        path   string  true   "ID del producto"
// @Param        branchId  query  string  false  "Vista de la sucursal"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"), c.Query("branchId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        branchId  query  string  false  "Vista de la sucursal"
// @Param        search    query  string  false  "Nombre, SKU o marca"
// @Param        brand     query  string  false  "Marca"
// @Param        category  query  string  false  "Tipo"
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), usecase.ListFilter{
		BranchID: c.Query("branchId"),
		Search:   c.Query("search"),
		Brand:    c.Query("brand"),
		Category: c.Query("category"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListByBranch godoc
// @Summary      Productos con stock en una sucursal
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        branchId  path  string  true  "ID de la sucursal"
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/products/branch/{branchId} [get]
func (h *ProductHandler) ListByBranch(c *fiber.Ctx) error {
	out, err := h.uc.ListByBranch(c.UserContext(), c.Params("branchId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
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
// @Summary      Eliminar producto
// @Tags         products
// @Security     Bearer
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetPrincipal(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "producto eliminado"})
}

// UpdateCentralStock godoc
// @Summary      Ajustar stock central
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.CentralStockRequest  true  "Cantidad a sumar (negativa para restar)"
// @Success      200   {object}  dto.ProductResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/stock [put]
func (h *ProductHandler) UpdateCentralStock(c *fiber.Ctx) error {
	var in dto.CentralStockRequest
	if err := bindJSON(c, &in); err != nil {
		return handled(err)
	}
	product, err := h.stock.UpdateCentralStock(c.UserContext(), GetPrincipal(c), c.Params("id"), in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(usecase.ToProductResponse(product))
}

// SetBranchPrice godoc
// @Summary      Fijar precio de sucursal
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id        path  string  true  "ID del producto"
// @Param        branchId  path  string  true  "ID de la sucursal"
// @Param        body      body  dto.BranchPriceRequest  true  "price y/o markup"
// @Success      200  {object}  dto.ProductResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/branch-price/{branchId} [put]
func (h *ProductHandler) SetBranchPrice(c *fiber.Ctx) error {
	var in dto.BranchPriceRequest
	if err := bindJSON(c, &in); err != nil {
		return handled(err)
	}
	product, err := h.prices.SetBranchPrice(c.UserContext(), GetPrincipal(c), c.Params("id"), c.Params("branchId"), in.Price, in.Markup)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(usecase.ToProductResponse(product))
}

// ClearBranchPrice godoc
// @Summary      Quitar precio de sucursal
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id        path  string  true  "ID del producto"
// @Param        branchId  path  string  true  "ID de la sucursal"
// @Success      200  {object}  dto.ProductResponse
// @Router       /api/products/{id}/branch-price/{branchId} [delete]
func (h *ProductHandler) ClearBranchPrice(c *fiber.Ctx) error {
	product, err := h.prices.ClearBranchPrice(c.UserContext(), GetPrincipal(c), c.Params("id"), c.Params("branchId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(usecase.ToProductResponse(product))
}

// RecalculateBranchPrices godoc
// @Summary      Recalcular precios de una sucursal
// @Description  Aplica la tasa de cambio y el markup de cada override. Con force también pisa los precios fijados a mano.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        branchId  path  string  true  "ID de la sucursal"
// @Param        body      body  dto.RecalculatePricesRequest  true  "rate, force"
// @Success      200  {object}  dto.RecalculatePricesResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/products/branch-prices/recalculate/{branchId} [put]
func (h *ProductHandler) RecalculateBranchPrices(c *fiber.Ctx) error {
	var in dto.RecalculatePricesRequest
	if err := bindJSON(c, &in); err != nil {
		return handled(err)
	}
	n, err := h.prices.RecalculateAllForBranch(c.UserContext(), GetPrincipal(c), c.Params("branchId"), in.Rate, in.Force)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.RecalculatePricesResponse{Updated: n})
}

// MostSold godoc
// @Summary      Productos más vendidos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        days      query  int     false  "Ventana en días"  default(30)
// @Param        branchId  query  string  false  "Sucursal"
// @Param        limit     query  int     false  "Máximo de filas"  default(50)
// @Success      200  {array}  dto.MostSoldResponse
// @Router       /api/products/most-sold [get]
func (h *ProductHandler) MostSold(c *fiber.Ctx) error {
	out, err := h.sales.GetMostSold(c.UserContext(), GetPrincipal(c), c.QueryInt("days", 0), c.Query("branchId"), c.QueryInt("limit", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toMostSold(out))
}
