package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden.
const (
	OrderPending    = "pending"
	OrderApproved   = "approved"
	OrderRejected   = "rejected"
	OrderDevolucion = "devolucion"
	OrderModificado = "modificado"
)

// Estados de un ítem de orden.
const (
	ItemNormal     = "normal"
	ItemDevolucion = "devolucion"
)

// Medios de pago aceptados.
const (
	PaymentCash    = "efectivo"
	PaymentDebit   = "débito"
	PaymentWallet  = "billetera virtual"
	DeliveryPickup = "pickup"
	DeliveryHome   = "delivery"
)

// IsValidOrderStatus indica si s es un estado de orden conocido.
func IsValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderApproved, OrderRejected, OrderDevolucion, OrderModificado:
		return true
	}
	return false
}

// IsValidPaymentMethod indica si m es un medio de pago aceptado.
func IsValidPaymentMethod(m string) bool {
	return m == PaymentCash || m == PaymentDebit || m == PaymentWallet
}

// IsValidDeliveryMethod indica si m es un método de entrega aceptado.
func IsValidDeliveryMethod(m string) bool {
	return m == DeliveryPickup || m == DeliveryHome
}

// OrderItem línea de una orden. BasePriceAtSale es el costo al momento de la venta (puede faltar en datos viejos).
type OrderItem struct {
	ProductID       string           `json:"product"`
	Quantity        int              `json:"quantity"`
	UnitPrice       decimal.Decimal  `json:"unitPrice"`
	BasePriceAtSale *decimal.Decimal `json:"basePriceAtSale,omitempty"`
	Status          string           `json:"status"`
}

// Returned indica si el ítem está marcado como devolución.
func (i OrderItem) Returned() bool { return i.Status == ItemDevolucion }

// DeliveryAddress dirección de envío (solo para deliveryMethod=delivery).
type DeliveryAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
}

// Order venta de una sucursal. UserID vacío = venta anónima o manual.
type Order struct {
	ID              string
	UserID          string
	BranchID        string
	Items           []OrderItem
	Total           decimal.Decimal
	Status          string
	PaymentMethod   string
	DeliveryMethod  string
	DeliveryAddress *DeliveryAddress
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	Notes           string
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RecalculateTotal suma cantidad × precio de los ítems que no son devolución.
func (o *Order) RecalculateTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		if it.Returned() {
			continue
		}
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	o.Total = total
	return total
}

// Clone devuelve una copia profunda.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	c.Items = make([]OrderItem, len(o.Items))
	for i, it := range o.Items {
		c.Items[i] = it
		if it.BasePriceAtSale != nil {
			b := *it.BasePriceAtSale
			c.Items[i].BasePriceAtSale = &b
		}
	}
	if o.DeliveryAddress != nil {
		a := *o.DeliveryAddress
		c.DeliveryAddress = &a
	}
	return &c
}
