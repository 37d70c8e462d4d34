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

var _ repository.BranchRepository = (*BranchRepo)(nil)

var branchColumns = []string{
	"id", "name", "number", "address", "city", "province", "phone", "admin_id",
	"exchange_rate", "default_markup", "stock", "product_prices", "version", "created_at", "updated_at",
}

// El ledger se guarda como jsonb; StockEntry acepta al leer las claves heredadas.
type branchRow struct {
	ID            string                      `db:"id"`
	Name          string                      `db:"name"`
	Number        string                      `db:"number"`
	Address       string                      `db:"address"`
	City          string                      `db:"city"`
	Province      string                      `db:"province"`
	Phone         string                      `db:"phone"`
	AdminID       string                      `db:"admin_id"`
	ExchangeRate  decimal.Decimal             `db:"exchange_rate"`
	DefaultMarkup decimal.Decimal             `db:"default_markup"`
	Stock         []entity.StockEntry         `db:"stock"`
	ProductPrices []entity.LegacyProductPrice `db:"product_prices"`
	Version       int64                       `db:"version"`
	CreatedAt     time.Time                   `db:"created_at"`
	UpdatedAt     time.Time                   `db:"updated_at"`
}

func (r branchRow) toEntity() *entity.Branch {
	return &entity.Branch{
		ID: r.ID, Name: r.Name, Number: r.Number, Address: r.Address, City: r.City,
		Province: r.Province, Phone: r.Phone, AdminID: r.AdminID,
		ExchangeRate: r.ExchangeRate, DefaultMarkup: r.DefaultMarkup,
		Stock: r.Stock, ProductPrices: r.ProductPrices, Version: r.Version,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

// BranchRepo sucursales con su ledger de stock.
type BranchRepo struct {
	q Querier
}

// NewBranchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBranchRepository(q Querier) *BranchRepo {
	return &BranchRepo{q: q}
}

func (r *BranchRepo) Create(ctx context.Context, b *entity.Branch) error {
	ins := psql.Insert("branches").Columns(branchColumns...).Values(
		b.ID, b.Name, b.Number, b.Address, b.City, b.Province, b.Phone, b.AdminID,
		b.ExchangeRate, b.DefaultMarkup, nonNil(b.Stock), nonNil(b.ProductPrices),
		b.Version, b.CreatedAt, b.UpdatedAt,
	)
	_, err := exec(ctx, r.q, ins, "insert branch")
	return err
}

func (r *BranchRepo) GetByID(ctx context.Context, id string) (*entity.Branch, error) {
	sql, args, err := psql.Select(branchColumns...).From("branches").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get branch: %w", err)
	}
	var row branchRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get branch: %w", err)
	}
	return row.toEntity(), nil
}

func (r *BranchRepo) List(ctx context.Context) ([]*entity.Branch, error) {
	sql, args, err := psql.Select(branchColumns...).From("branches").OrderBy("name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list branches: %w", err)
	}
	var rows []branchRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	out := make([]*entity.Branch, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

// Update reescribe la sucursal completa (incluido el ledger) con compare-and-swap sobre version.
func (r *BranchRepo) Update(ctx context.Context, b *entity.Branch) error {
	upd := psql.Update("branches").SetMap(map[string]any{
		"name":           b.Name,
		"number":         b.Number,
		"address":        b.Address,
		"city":           b.City,
		"province":       b.Province,
		"phone":          b.Phone,
		"admin_id":       b.AdminID,
		"exchange_rate":  b.ExchangeRate,
		"default_markup": b.DefaultMarkup,
		"stock":          nonNil(b.Stock),
		"product_prices": nonNil(b.ProductPrices),
		"updated_at":     b.UpdatedAt,
	})
	return casUpdate(ctx, r.q, upd, b.ID, &b.Version, "update branch")
}

func (r *BranchRepo) Delete(ctx context.Context, id string) error {
	_, err := exec(ctx, r.q, psql.Delete("branches").Where(squirrel.Eq{"id": id}), "delete branch")
	return err
}
