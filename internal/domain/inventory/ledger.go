package inventory

import (
	"github.com/jhoicas/Sucursales-api/internal/domain"
	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
)

// FulfillmentMode decide cómo una orden afecta el ledger de la sucursal.
// Se calcula una sola vez por orden a partir del principal que la crea.
type FulfillmentMode int

const (
	// Reserved: la orden queda pendiente; el stock pasa de disponible a reservado.
	Reserved FulfillmentMode = iota
	// Direct: la orden nace aprobada; el stock se descuenta del disponible sin reservar.
	Direct
)

func (m FulfillmentMode) String() string {
	if m == Direct {
		return "direct"
	}
	return "reserved"
}

// ModeFor devuelve Direct para administradores (central o de sucursal) y Reserved para el resto,
// incluido el comprador anónimo (p == nil).
func ModeFor(p *entity.Principal) FulfillmentMode {
	if p.IsPrivileged() {
		return Direct
	}
	return Reserved
}

// Clamp describe un descuento que tuvo que acotarse en cero.
// Si Clamped() es true hubo un error contable previo y el caller debe registrarlo.
type Clamp struct {
	Field  string
	Wanted int
	Had    int
}

// Clamped indica si el valor pedido superaba el existente.
func (c Clamp) Clamped() bool { return c.Wanted > c.Had }

func checkQty(qty int) error {
	if qty <= 0 {
		return domain.ErrInvalidQuantity
	}
	return nil
}

func insufficient(e *entity.StockEntry, qty int) error {
	return &domain.InsufficientStockError{ProductID: e.ProductID, Available: e.Available, Requested: qty}
}

// Reserve mueve qty de disponible a reservado. Si no alcanza, la entrada no se modifica.
func Reserve(e *entity.StockEntry, qty int) error {
	if err := checkQty(qty); err != nil {
		return err
	}
	if e.Available < qty {
		return insufficient(e, qty)
	}
	e.Available -= qty
	e.Reserved += qty
	return nil
}

// ConsumeDirect descuenta qty del disponible sin pasar por reservado (venta final inmediata).
func ConsumeDirect(e *entity.StockEntry, qty int) error {
	if err := checkQty(qty); err != nil {
		return err
	}
	if e.Available < qty {
		return insufficient(e, qty)
	}
	e.Available -= qty
	return nil
}

// Apply ejecuta Reserve o ConsumeDirect según el modo.
func Apply(mode FulfillmentMode, e *entity.StockEntry, qty int) error {
	if mode == Direct {
		return ConsumeDirect(e, qty)
	}
	return Reserve(e, qty)
}

// Release devuelve qty al disponible y descuenta min(qty, reservado) del reservado.
func Release(e *entity.StockEntry, qty int) (Clamp, error) {
	if err := checkQty(qty); err != nil {
		return Clamp{}, err
	}
	c := decreaseReserved(e, qty)
	e.Available += qty
	return c, nil
}

// ConfirmReservation descuenta min(qty, reservado) del reservado. El disponible no cambia: la venta es final.
func ConfirmReservation(e *entity.StockEntry, qty int) (Clamp, error) {
	if err := checkQty(qty); err != nil {
		return Clamp{}, err
	}
	return decreaseReserved(e, qty), nil
}

// Restore suma qty al disponible sin tocar el reservado (reducción de una orden ya aprobada).
func Restore(e *entity.StockEntry, qty int) error {
	if err := checkQty(qty); err != nil {
		return err
	}
	e.Available += qty
	return nil
}

// TransferIn suma qty al disponible de la sucursal (lado destino de una transferencia).
func TransferIn(e *entity.StockEntry, qty int) error {
	return Restore(e, qty)
}

// TransferOut valida y descuenta qty del stock central. Devuelve el nuevo stock central.
func TransferOut(central, qty int) (int, error) {
	if err := checkQty(qty); err != nil {
		return central, err
	}
	if central < qty {
		return central, &domain.InsufficientStockError{Available: central, Requested: qty, Central: true}
	}
	return central - qty, nil
}

// AdjustCentral suma delta (puede ser negativo) al stock central, acotando en cero.
func AdjustCentral(central, delta int) (int, Clamp) {
	next := central + delta
	if next < 0 {
		return 0, Clamp{Field: "centralQuantity", Wanted: -delta, Had: central}
	}
	return next, Clamp{Field: "centralQuantity", Wanted: -delta, Had: central}
}

func decreaseReserved(e *entity.StockEntry, qty int) Clamp {
	c := Clamp{Field: "reservedQuantity", Wanted: qty, Had: e.Reserved}
	if qty > e.Reserved {
		e.Reserved = 0
		return c
	}
	e.Reserved -= qty
	return c
}
