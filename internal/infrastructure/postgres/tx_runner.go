package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/jhoicas/Sucursales-api/internal/application/inventory"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

var tracer = otel.Tracer("sucursales/postgres")

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Los Update de los repos son compare-and-swap, así que un conflicto aborta la tx con ErrWriteConflict.
func (r *TxRunner) Run(ctx context.Context, fn func(inventory.Repos) error) (err error) {
	ctx, span := tracer.Start(ctx, "postgres.tx")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := inventory.Repos{
		Products: NewProductRepository(tx),
		Branches: NewBranchRepository(tx),
		Orders:   NewOrderRepository(tx),
		Requests: NewStockRequestRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
