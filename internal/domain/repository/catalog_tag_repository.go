package repository

import (
	"context"

	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
)

// CatalogTagRepository puerto de persistencia para marcas y tipos de producto.
type CatalogTagRepository interface {
	Create(ctx context.Context, tag *entity.CatalogTag) error
	GetByID(ctx context.Context, kind, id string) (*entity.CatalogTag, error)
	GetByName(ctx context.Context, kind, name string) (*entity.CatalogTag, error)
	Update(ctx context.Context, tag *entity.CatalogTag) error
	// List ordena por nombre.
	List(ctx context.Context, kind string) ([]*entity.CatalogTag, error)
	Delete(ctx context.Context, kind, id string) error
}
