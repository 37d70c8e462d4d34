package repository

import (
	"context"

	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID devuelve (nil, nil) si no existe. Update es compare-and-swap sobre Version:
// si el producto cambió desde que se leyó devuelve domain.ErrWriteConflict.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	List(ctx context.Context) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
	// RenameBrand reemplaza la marca en todos los productos que la usan. Devuelve cuántos cambió.
	RenameBrand(ctx context.Context, oldName, newName string) (int, error)
}
