package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Sucursales-api/internal/application/analytics"
	"github.com/jhoicas/Sucursales-api/internal/application/dto"
	"github.com/jhoicas/Sucursales-api/internal/application/order"
	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
)

// OrderHandler maneja órdenes y los reportes de ventas.
type OrderHandler struct {
	uc    *order.UseCase
	sales *analytics.SalesUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *order.UseCase, sales *analytics.SalesUseCase) *OrderHandler {
	return &OrderHandler{uc: uc, sales: sales}
}

// Create godoc
// @Summary      Crear orden
// @Description  Admite compra anónima. Un admin crea la orden aprobada y descuenta stock; el resto la deja pendiente y reserva.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Datos de la orden"
// @Success      201   {object}  dto.CreateOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := bindJSON(c, &in); err != nil {
		return handled(err)
	}
	input := order.CreateInput{
		BranchID:       in.BranchID,
		Items:          make([]order.ItemInput, 0, len(in.Items)),
		PaymentMethod:  in.PaymentMethod,
		DeliveryMethod: in.DeliveryMethod,
		CustomerName:   in.CustomerName,
		CustomerEmail:  in.CustomerEmail,
		CustomerPhone:  in.CustomerPhone,
		Notes:          in.Notes,
		CustomTotal:    in.CustomTotal,
	}
	for _, it := range in.Items {
		input.Items = append(input.Items, order.ItemInput{
			ProductID:       it.ProductID,
			Quantity:        it.Quantity,
			Price:           it.Price,
			BasePriceAtSale: it.BasePriceAtSale,
		})
	}
	if a := in.DeliveryAddress; a != nil {
		input.DeliveryAddress = &entity.DeliveryAddress{Address: a.Address, City: a.City, PostalCode: a.PostalCode}
	}

	res, err := h.uc.CreateOrder(c.UserContext(), GetPrincipal(c), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreateOrderResponse{
		Order:        toOrderResponse(res.Order),
		WhatsAppLink: res.WhatsAppLink,
	})
}

// List godoc
// @Summary      Listar órdenes
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        branchId  query  string  false  "Sucursal"
// @Param        status    query  string  false  "Estado"
// @Success      200  {array}  dto.OrderResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.ListOrders(c.UserContext(), GetPrincipal(c), order.ListFilter{
		BranchID: c.Query("branchId"),
		Status:   c.Query("status"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toOrderList(list))
}

// GetByID godoc
// @Summary      Obtener orden
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	o, err := h.uc.GetOrder(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toOrderResponse(o))
}

// Update godoc
// @Summary      Editar orden
// @Description  Reconcilia el stock de la sucursal con los ítems y el estado nuevos.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.UpdateOrderRequest  true  "items y/o status"
// @Success      200   {object}  dto.OrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [put]
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateOrderRequest
	if err := bindJSON(c, &in); err != nil {
		return handled(err)
	}
	input := order.UpdateInput{Status: in.Status}
	if in.Items != nil {
		input.Items = make([]order.UpdateItemInput, 0, len(*in.Items))
		for _, it := range *in.Items {
			input.Items = append(input.Items, order.UpdateItemInput{
				ProductID:       it.ProductID,
				Quantity:        it.Quantity,
				UnitPrice:       it.Price,
				BasePriceAtSale: it.BasePriceAtSale,
				Status:          it.Status,
			})
		}
	}
	o, err := h.uc.UpdateOrder(c.UserContext(), GetPrincipal(c), c.Params("id"), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toOrderResponse(o))
}

// Approve godoc
// @Summary      Aprobar orden pendiente
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/approve [post]
func (h *OrderHandler) Approve(c *fiber.Ctx) error {
	o, err := h.uc.ApproveOrder(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toOrderResponse(o))
}

// Reject godoc
// @Summary      Rechazar orden pendiente
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/reject [post]
func (h *OrderHandler) Reject(c *fiber.Ctx) error {
	o, err := h.uc.RejectOrder(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toOrderResponse(o))
}

// SalesStats godoc
// @Summary      Unidades vendidas y devueltas por producto
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        branchId       query  string  true   "Sucursal"
// @Param        paymentMethod  query  string  false  "Medio de pago"
// @Success      200  {array}  analytics.ProductSales
// @Router       /api/orders/stats/sales [get]
func (h *OrderHandler) SalesStats(c *fiber.Ctx) error {
	out, err := h.sales.GetSalesStats(c.UserContext(), GetPrincipal(c), c.Query("branchId"), c.Query("paymentMethod"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SalesDetail godoc
// @Summary      Detalle de ventas con métricas
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        branchId       query  string  true   "Sucursal"
// @Param        startDate      query  string  false  "YYYY-MM-DD"
// @Param        endDate        query  string  false  "YYYY-MM-DD"
// @Param        month          query  string  false  "YYYY-MM"
// @Param        year           query  string  false  "YYYY"
// @Param        paymentMethod  query  string  false  "Medio de pago"
// @Success      200  {object}  dto.SalesDetailResponse
// @Router       /api/orders/detail/sales [get]
func (h *OrderHandler) SalesDetail(c *fiber.Ctx) error {
	detail, err := h.sales.GetSalesDetail(c.UserContext(), GetPrincipal(c), c.Query("branchId"), detailFilter(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.SalesDetailResponse{
		Orders:  toOrderList(detail.Orders),
		Metrics: dto.SalesMetricsDTO(detail.Metrics),
	})
}

// ExportSalesDetail godoc
// @Summary      Exportar detalle de ventas a Excel
// @Tags         orders
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        branchId  query  string  true  "Sucursal"
// @Success      200  {file}  file
// @Router       /api/orders/detail/sales/export [get]
func (h *OrderHandler) ExportSalesDetail(c *fiber.Ctx) error {
	data, filename, err := h.sales.ExportSalesDetail(c.UserContext(), GetPrincipal(c), c.Query("branchId"), detailFilter(c))
	if err != nil {
		return writeError(c, err)
	}
	c.Attachment(filename)
	return c.Send(data)
}

func detailFilter(c *fiber.Ctx) analytics.DetailFilter {
	return analytics.DetailFilter{
		StartDate:     c.Query("startDate"),
		EndDate:       c.Query("endDate"),
		Month:         c.Query("month"),
		Year:          c.Query("year"),
		PaymentMethod: c.Query("paymentMethod"),
	}
}
