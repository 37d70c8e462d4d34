package repository

import (
	"context"

	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
)

// StockRequestRepository puerto de persistencia para StockRequest.
type StockRequestRepository interface {
	Create(ctx context.Context, req *entity.StockRequest) error
	GetByID(ctx context.Context, id string) (*entity.StockRequest, error)
	Update(ctx context.Context, req *entity.StockRequest) error
	// List filtra por sucursal si branchID no está vacío. Más recientes primero.
	List(ctx context.Context, branchID string) ([]*entity.StockRequest, error)
}
