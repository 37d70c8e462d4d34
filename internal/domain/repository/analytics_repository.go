package repository

import (
	"context"
	"time"
)

// MostSoldResult resultado crudo del ranking de productos más vendidos.
type MostSoldResult struct {
	ProductID string
	TotalSold int
	Name      string
	SKU       string
	Brand     string
}

// AnalyticsRepository consultas de solo lectura que conviene resolver en la base.
type AnalyticsRepository interface {
	// GetMostSold suma las cantidades de órdenes aprobadas desde since, opcionalmente por sucursal,
	// ordenadas por total vendido descendente.
	GetMostSold(ctx context.Context, since time.Time, branchID string, limit int) ([]MostSoldResult, error)
}
