package inventory

import (
	"context"

	"github.com/jhoicas/Sucursales-api/internal/domain/repository"
)

// Repos agrupa los repositorios atados a una misma transacción.
type Repos struct {
	Products repository.ProductRepository
	Branches repository.BranchRepository
	Orders   repository.OrderRepository
	Requests repository.StockRequestRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error no se persiste nada. Garantiza atomicidad entre ledger de sucursal,
// stock central y la orden o solicitud que los modifica.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
