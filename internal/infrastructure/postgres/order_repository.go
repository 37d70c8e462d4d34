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

var _ repository.OrderRepository = (*OrderRepo)(nil)

var orderColumns = []string{
	"id", "user_id", "branch_id", "items", "total", "status", "payment_method", "delivery_method",
	"delivery_address", "customer_name", "customer_email", "customer_phone", "notes",
	"version", "created_at", "updated_at",
}

type orderRow struct {
	ID              string                  `db:"id"`
	UserID          string                  `db:"user_id"`
	BranchID        string                  `db:"branch_id"`
	Items           []entity.OrderItem      `db:"items"`
	Total           decimal.Decimal         `db:"total"`
	Status          string                  `db:"status"`
	PaymentMethod   string                  `db:"payment_method"`
	DeliveryMethod  string                  `db:"delivery_method"`
	DeliveryAddress *entity.DeliveryAddress `db:"delivery_address"`
	CustomerName    string                  `db:"customer_name"`
	CustomerEmail   string                  `db:"customer_email"`
	CustomerPhone   string                  `db:"customer_phone"`
	Notes           string                  `db:"notes"`
	Version         int64                   `db:"version"`
	CreatedAt       time.Time               `db:"created_at"`
	UpdatedAt       time.Time               `db:"updated_at"`
}

func (r orderRow) toEntity() *entity.Order {
	return &entity.Order{
		ID: r.ID, UserID: r.UserID, BranchID: r.BranchID, Items: r.Items, Total: r.Total,
		Status: r.Status, PaymentMethod: r.PaymentMethod, DeliveryMethod: r.DeliveryMethod,
		DeliveryAddress: r.DeliveryAddress, CustomerName: r.CustomerName,
		CustomerEmail: r.CustomerEmail, CustomerPhone: r.CustomerPhone, Notes: r.Notes,
		Version: r.Version, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

// OrderRepo órdenes; los ítems se guardan como jsonb.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	ins := psql.Insert("orders").Columns(orderColumns...).Values(
		o.ID, o.UserID, o.BranchID, nonNil(o.Items), o.Total, o.Status, o.PaymentMethod, o.DeliveryMethod,
		o.DeliveryAddress, o.CustomerName, o.CustomerEmail, o.CustomerPhone, o.Notes,
		o.Version, o.CreatedAt, o.UpdatedAt,
	)
	_, err := exec(ctx, r.q, ins, "insert order")
	return err
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	sql, args, err := psql.Select(orderColumns...).From("orders").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get order: %w", err)
	}
	var row orderRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return row.toEntity(), nil
}

func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	upd := psql.Update("orders").SetMap(map[string]any{
		"items":            nonNil(o.Items),
		"total":            o.Total,
		"status":           o.Status,
		"payment_method":   o.PaymentMethod,
		"delivery_method":  o.DeliveryMethod,
		"delivery_address": o.DeliveryAddress,
		"customer_name":    o.CustomerName,
		"customer_email":   o.CustomerEmail,
		"customer_phone":   o.CustomerPhone,
		"notes":            o.Notes,
		"updated_at":       o.UpdatedAt,
	})
	return casUpdate(ctx, r.q, upd, o.ID, &o.Version, "update order")
}

// List aplica los filtros no vacíos; To es inclusivo.
func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	sel := psql.Select(orderColumns...).From("orders").OrderBy("created_at DESC")
	if f.BranchID != "" {
		sel = sel.Where(squirrel.Eq{"branch_id": f.BranchID})
	}
	if f.UserID != "" {
		sel = sel.Where(squirrel.Eq{"user_id": f.UserID})
	}
	if f.PaymentMethod != "" {
		sel = sel.Where(squirrel.Eq{"payment_method": f.PaymentMethod})
	}
	if len(f.Statuses) > 0 {
		sel = sel.Where(squirrel.Eq{"status": f.Statuses})
	}
	if f.From != nil {
		sel = sel.Where(squirrel.GtOrEq{"created_at": *f.From})
	}
	if f.To != nil {
		sel = sel.Where(squirrel.LtOrEq{"created_at": *f.To})
	}
	sql, args, err := sel.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list orders: %w", err)
	}
	var rows []orderRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	out := make([]*entity.Order, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}
