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

var _ repository.StockMovementRepository = (*MovementRepo)(nil)

var movementColumns = []string{"id", "user_id", "product_id", "source", "to_branch_id", "quantity", "notes", "created_at"}

type movementRow struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	ProductID  string    `db:"product_id"`
	Source     string    `db:"source"`
	ToBranchID string    `db:"to_branch_id"`
	Quantity   int       `db:"quantity"`
	Notes      string    `db:"notes"`
	CreatedAt  time.Time `db:"created_at"`
}

// MovementRepo log append-only de movimientos hacia sucursales.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Se usa con el pool: el log no participa de la tx.
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

func (r *MovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	ins := psql.Insert("stock_movements").Columns(movementColumns...).Values(
		m.ID, m.UserID, m.ProductID, m.Source, m.ToBranchID, m.Quantity, m.Notes, m.CreatedAt,
	)
	_, err := exec(ctx, r.q, ins, "insert stock movement")
	return err
}

func (r *MovementRepo) List(ctx context.Context, branchID string, limit int) ([]*entity.StockMovement, error) {
	sel := psql.Select(movementColumns...).From("stock_movements").OrderBy("created_at DESC")
	if branchID != "" {
		sel = sel.Where(squirrel.Eq{"to_branch_id": branchID})
	}
	if limit > 0 {
		sel = sel.Limit(uint64(limit))
	}
	sql, args, err := sel.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list movements: %w", err)
	}
	var rows []movementRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	out := make([]*entity.StockMovement, 0, len(rows))
	for _, row := range rows {
		m := entity.StockMovement(row)
		out = append(out, &m)
	}
	return out, nil
}
