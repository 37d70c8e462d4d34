package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
	"github.com/jhoicas/Sucursales-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

var productColumns = []string{
	"id", "sku", "name", "brand", "category", "description", "price",
	"central_quantity", "image", "branch_prices", "version", "created_at", "updated_at",
}

type productRow struct {
	ID              string               `db:"id"`
	SKU             string               `db:"sku"`
	Name            string               `db:"name"`
	Brand           string               `db:"brand"`
	Category        string               `db:"category"`
	Description     string               `db:"description"`
	Price           decimal.Decimal      `db:"price"`
	CentralQuantity int                  `db:"central_quantity"`
	Image           string               `db:"image"`
	BranchPrices    []entity.BranchPrice `db:"branch_prices"`
	Version         int64                `db:"version"`
	CreatedAt       time.Time            `db:"created_at"`
	UpdatedAt       time.Time            `db:"updated_at"`
}

func (r productRow) toEntity() *entity.Product {
	return &entity.Product{
		ID: r.ID, SKU: r.SKU, Name: r.Name, Brand: r.Brand, Category: r.Category,
		Description: r.Description, Price: r.Price, CentralQuantity: r.CentralQuantity,
		Image: r.Image, BranchPrices: r.BranchPrices, Version: r.Version,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto. SKU repetido devuelve domain.ErrDuplicate.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	b := psql.Insert("products").Columns(productColumns...).Values(
		p.ID, p.SKU, p.Name, p.Brand, p.Category, p.Description, p.Price,
		p.CentralQuantity, p.Image, nonNil(p.BranchPrices), p.Version, p.CreatedAt, p.UpdatedAt,
	)
	_, err := exec(ctx, r.q, b, "insert product")
	return err
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetBySKU obtiene un producto por SKU.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return r.getOne(ctx, squirrel.Eq{"sku": sku})
}

func (r *ProductRepo) getOne(ctx context.Context, where squirrel.Sqlizer) (*entity.Product, error) {
	sql, args, err := psql.Select(productColumns...).From("products").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get product: %w", err)
	}
	var row productRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return row.toEntity(), nil
}

// List lista todos los productos ordenados por nombre.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	sql, args, err := psql.Select(productColumns...).From("products").OrderBy("name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list products: %w", err)
	}
	var rows []productRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]*entity.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

// Update guarda todos los campos si la versión no cambió (compare-and-swap).
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	b := psql.Update("products").SetMap(map[string]any{
		"sku":              p.SKU,
		"name":             p.Name,
		"brand":            p.Brand,
		"category":         p.Category,
		"description":      p.Description,
		"price":            p.Price,
		"central_quantity": p.CentralQuantity,
		"image":            p.Image,
		"branch_prices":    nonNil(p.BranchPrices),
		"updated_at":       p.UpdatedAt,
	})
	return casUpdate(ctx, r.q, b, p.ID, &p.Version, "update product")
}

// Delete elimina el producto sin verificar referencias.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	_, err := exec(ctx, r.q, psql.Delete("products").Where(squirrel.Eq{"id": id}), "delete product")
	return err
}

// RenameBrand reemplaza la marca en bloque e incrementa la versión de cada producto tocado.
func (r *ProductRepo) RenameBrand(ctx context.Context, oldName, newName string) (int, error) {
	b := psql.Update("products").
		Set("brand", newName).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"brand": oldName})
	tag, err := exec(ctx, r.q, b, "rename brand")
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
