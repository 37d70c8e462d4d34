package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
	"github.com/jhoicas/Sucursales-api/internal/domain/repository"
)

var _ repository.StockRequestRepository = (*StockRequestRepo)(nil)

var stockRequestColumns = []string{
	"id", "requested_by", "branch_id", "items", "status", "notes",
	"processed_by", "processed_at", "version", "created_at", "updated_at",
}

type stockRequestRow struct {
	ID          string                    `db:"id"`
	RequestedBy string                    `db:"requested_by"`
	BranchID    string                    `db:"branch_id"`
	Items       []entity.StockRequestItem `db:"items"`
	Status      string                    `db:"status"`
	Notes       string                    `db:"notes"`
	ProcessedBy string                    `db:"processed_by"`
	ProcessedAt *time.Time                `db:"processed_at"`
	Version     int64                     `db:"version"`
	CreatedAt   time.Time                 `db:"created_at"`
	UpdatedAt   time.Time                 `db:"updated_at"`
}

func (r stockRequestRow) toEntity() *entity.StockRequest {
	return &entity.StockRequest{
		ID: r.ID, RequestedBy: r.RequestedBy, BranchID: r.BranchID, Items: r.Items,
		Status: r.Status, Notes: r.Notes, ProcessedBy: r.ProcessedBy, ProcessedAt: r.ProcessedAt,
		Version: r.Version, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

// StockRequestRepo solicitudes de reposición.
type StockRequestRepo struct {
	q Querier
}

// NewStockRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRequestRepository(q Querier) *StockRequestRepo {
	return &StockRequestRepo{q: q}
}

func (r *StockRequestRepo) Create(ctx context.Context, req *entity.StockRequest) error {
	ins := psql.Insert("stock_requests").Columns(stockRequestColumns...).Values(
		req.ID, req.RequestedBy, req.BranchID, nonNil(req.Items), req.Status, req.Notes,
		req.ProcessedBy, req.ProcessedAt, req.Version, req.CreatedAt, req.UpdatedAt,
	)
	_, err := exec(ctx, r.q, ins, "insert stock request")
	return err
}

func (r *StockRequestRepo) GetByID(ctx context.Context, id string) (*entity.StockRequest, error) {
	sql, args, err := psql.Select(stockRequestColumns...).From("stock_requests").
		Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get stock request: %w", err)
	}
	var row stockRequestRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock request: %w", err)
	}
	return row.toEntity(), nil
}

func (r *StockRequestRepo) Update(ctx context.Context, req *entity.StockRequest) error {
	upd := psql.Update("stock_requests").SetMap(map[string]any{
		"items":        nonNil(req.Items),
		"status":       req.Status,
		"notes":        req.Notes,
		"processed_by": req.ProcessedBy,
		"processed_at": req.ProcessedAt,
		"updated_at":   req.UpdatedAt,
	})
	return casUpdate(ctx, r.q, upd, req.ID, &req.Version, "update stock request")
}

// List más recientes primero; branchID vacío lista todas.
func (r *StockRequestRepo) List(ctx context.Context, branchID string) ([]*entity.StockRequest, error) {
	sel := psql.Select(stockRequestColumns...).From("stock_requests").OrderBy("created_at DESC")
	if branchID != "" {
		sel = sel.Where(squirrel.Eq{"branch_id": branchID})
	}
	sql, args, err := sel.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list stock requests: %w", err)
	}
	var rows []stockRequestRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list stock requests: %w", err)
	}
	out := make([]*entity.StockRequest, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}
