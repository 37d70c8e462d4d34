package repository

import (
	"context"

	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
)

// BranchRepository puerto de persistencia para Branch (incluye su ledger de stock).
// Update es compare-and-swap sobre Version (domain.ErrWriteConflict si otro request escribió antes).
type BranchRepository interface {
	Create(ctx context.Context, branch *entity.Branch) error
	GetByID(ctx context.Context, id string) (*entity.Branch, error)
	List(ctx context.Context) ([]*entity.Branch, error)
	Update(ctx context.Context, branch *entity.Branch) error
	Delete(ctx context.Context, id string) error
}
