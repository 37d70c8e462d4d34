package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea de una orden nueva.
type OrderItemRequest struct {
	ProductID       string           `json:"productId" validate:"required"`
	Quantity        int              `json:"quantity" validate:"required,gt=0"`
	Price           decimal.Decimal  `json:"price"`
	BasePriceAtSale *decimal.Decimal `json:"basePriceAtSale"`
}

// DeliveryAddressDTO dirección de envío.
type DeliveryAddressDTO struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
}

// CreateOrderRequest body de POST /orders.
type CreateOrderRequest struct {
	BranchID        string              `json:"branchId" validate:"required"`
	Items           []OrderItemRequest  `json:"items" validate:"required,min=1,dive"`
	PaymentMethod   string              `json:"paymentMethod" validate:"required"`
	DeliveryMethod  string              `json:"deliveryMethod" validate:"required"`
	DeliveryAddress *DeliveryAddressDTO `json:"deliveryAddress"`
	CustomerName    string              `json:"customerName" validate:"omitempty,max=200"`
	CustomerEmail   string              `json:"customerEmail" validate:"omitempty,email"`
	CustomerPhone   string              `json:"customerPhone" validate:"omitempty,max=50"`
	Notes           string              `json:"notes" validate:"omitempty,max=1000"`
	CustomTotal     *decimal.Decimal    `json:"customTotal"`
}

// UpdateOrderItemRequest línea en la edición de una orden.
type UpdateOrderItemRequest struct {
	ProductID       string           `json:"productId" validate:"required"`
	Quantity        int              `json:"quantity" validate:"gte=0"`
	Price           decimal.Decimal  `json:"price"`
	BasePriceAtSale *decimal.Decimal `json:"basePriceAtSale"`
	Status          string           `json:"status" validate:"omitempty,oneof=normal devolucion"`
}

// UpdateOrderRequest body de PUT /orders/:id. Items ausente deja los ítems como están.
type UpdateOrderRequest struct {
	Items  *[]UpdateOrderItemRequest `json:"items" validate:"omitempty,dive"`
	Status string                    `json:"status" validate:"omitempty,oneof=pending approved rejected devolucion modificado"`
}

// OrderItemResponse línea de una orden.
type OrderItemResponse struct {
	ProductID       string           `json:"productId"`
	Quantity        int              `json:"quantity"`
	Price           decimal.Decimal  `json:"price"`
	BasePriceAtSale *decimal.Decimal `json:"basePriceAtSale,omitempty"`
	Status          string           `json:"status"`
}

// OrderResponse salida de una orden.
type OrderResponse struct {
	ID              string              `json:"id"`
	UserID          string              `json:"user,omitempty"`
	BranchID        string              `json:"branch"`
	Items           []OrderItemResponse `json:"items"`
	Total           decimal.Decimal     `json:"total"`
	Status          string              `json:"status"`
	PaymentMethod   string              `json:"paymentMethod"`
	DeliveryMethod  string              `json:"deliveryMethod"`
	DeliveryAddress *DeliveryAddressDTO `json:"deliveryAddress,omitempty"`
	CustomerName    string              `json:"customerName,omitempty"`
	CustomerEmail   string              `json:"customerEmail,omitempty"`
	CustomerPhone   string              `json:"customerPhone,omitempty"`
	Notes           string              `json:"notes,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// CreateOrderResponse orden creada con el link de WhatsApp a la sucursal (vacío si no se pudo armar).
type CreateOrderResponse struct {
	Order        OrderResponse `json:"order"`
	WhatsAppLink string        `json:"whatsappLink,omitempty"`
}

// SalesDetailResponse detalle de ventas con métricas.
type SalesDetailResponse struct {
	Orders  []OrderResponse `json:"orders"`
	Metrics SalesMetricsDTO `json:"metrics"`
}

// SalesMetricsDTO métricas del detalle.
type SalesMetricsDTO struct {
	TotalOrders   int             `json:"totalOrders"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalReturned int             `json:"totalReturned"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	TotalProfit   decimal.Decimal `json:"totalProfit"`
	AverageOrder  decimal.Decimal `json:"averageOrder"`
}
