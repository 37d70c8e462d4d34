package entity

import "time"

// Orígenes de un movimiento de stock.
const (
	MovementFromCentral = "central" // transferencia desde el depósito central
	MovementFromManual  = "manual"  // carga manual en la sucursal
	MovementFromOther   = "other"
)

// StockMovement registro de auditoría inmutable de un movimiento de stock hacia una sucursal.
type StockMovement struct {
	ID         string
	UserID     string
	ProductID  string
	Source     string // central, manual, other
	ToBranchID string
	Quantity   int
	Notes      string
	CreatedAt  time.Time
}
