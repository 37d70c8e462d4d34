package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/Sucursales-api/internal/domain"
)

var tracer = otel.Tracer("sucursales/inventory")

// DefaultMaxAttempts intentos por defecto ante un conflicto de escritura.
const DefaultMaxAttempts = 3

var _ TxRunner = (*RetryingTxRunner)(nil)

// RetryingTxRunner reintenta la transacción completa cuando falla con domain.ErrWriteConflict.
// fn debe recargar las entidades en cada intento (todas las lecturas van dentro de fn).
type RetryingTxRunner struct {
	next        TxRunner
	maxAttempts int
	backoff     time.Duration
	log         zerolog.Logger
}

// NewRetryingTxRunner envuelve next. maxAttempts <= 0 usa DefaultMaxAttempts.
func NewRetryingTxRunner(next TxRunner, maxAttempts int, log zerolog.Logger) *RetryingTxRunner {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &RetryingTxRunner{next: next, maxAttempts: maxAttempts, backoff: 10 * time.Millisecond, log: log}
}

// Run ejecuta fn con reintentos acotados. Otros errores se devuelven sin reintentar.
func (r *RetryingTxRunner) Run(ctx context.Context, fn func(Repos) error) error {
	ctx, span := tracer.Start(ctx, "tx.retry", trace.WithAttributes(
		attribute.Int("tx.max_attempts", r.maxAttempts),
	))
	defer span.End()

	var err error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		err = r.next.Run(ctx, fn)
		if err == nil || !errors.Is(err, domain.ErrWriteConflict) {
			span.SetAttributes(attribute.Int("tx.attempts", attempt))
			return err
		}
		r.log.Warn().Int("attempt", attempt).Err(err).Msg("conflicto de escritura, reintentando")
		if attempt == r.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * r.backoff):
		}
	}
	span.SetAttributes(attribute.Int("tx.attempts", r.maxAttempts))
	return err
}
