package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
)

// OrderFilter filtros para listar órdenes. Campos vacíos no filtran.
// To es inclusivo.
type OrderFilter struct {
	BranchID      string
	UserID        string
	Statuses      []string
	PaymentMethod string
	From          *time.Time
	To            *time.Time
}

// OrderRepository puerto de persistencia para Order.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	// List devuelve las órdenes más recientes primero.
	List(ctx context.Context, filter OrderFilter) ([]*entity.Order, error)
}
