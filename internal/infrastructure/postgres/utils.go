package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Sucursales-api/internal/domain"
)

// Querier es lo común entre *pgxpool.Pool y pgx.Tx: los repos funcionan igual dentro o fuera de una tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// psql builder con placeholders $1, $2...
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// exec construye y ejecuta la sentencia.
func exec(ctx context.Context, q Querier, b squirrel.Sqlizer, op string) (pgconn.CommandTag, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("%s: build: %w", op, err)
	}
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return tag, domain.ErrDuplicate
		}
		return tag, fmt.Errorf("%s: %w", op, err)
	}
	return tag, nil
}

// casUpdate ejecuta un UPDATE ... WHERE id AND version. Cero filas afectadas = otro request escribió antes.
func casUpdate(ctx context.Context, q Querier, b squirrel.UpdateBuilder, id string, version *int64, op string) error {
	b = b.Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": id, "version": *version})
	tag, err := exec(ctx, q, b, op)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWriteConflict
	}
	*version++
	return nil
}

// nonNil evita persistir null en columnas jsonb de listas.
func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
