package repository

import (
	"context"

	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
)

// StockMovementRepository log de auditoría append-only.
type StockMovementRepository interface {
	Create(ctx context.Context, mov *entity.StockMovement) error
	// List devuelve a lo sumo limit movimientos, más recientes primero; filtra por sucursal destino si branchID != "".
	List(ctx context.Context, branchID string, limit int) ([]*entity.StockMovement, error)
}
