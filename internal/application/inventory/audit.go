package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
	"github.com/jhoicas/Sucursales-api/internal/domain/repository"
)

// AuditLog registra movimientos de stock. Es best-effort: un fallo se loguea y no se propaga,
// la operación de stock ya quedó confirmada.
type AuditLog struct {
	repo repository.StockMovementRepository
	log  zerolog.Logger
}

// NewAuditLog construye el registrador de movimientos.
func NewAuditLog(repo repository.StockMovementRepository, log zerolog.Logger) *AuditLog {
	return &AuditLog{repo: repo, log: log}
}

// Record persiste los movimientos y devuelve los que se pudieron guardar.
// Completa ID y CreatedAt si vienen vacíos.
func (a *AuditLog) Record(ctx context.Context, movs ...*entity.StockMovement) []*entity.StockMovement {
	saved := make([]*entity.StockMovement, 0, len(movs))
	for _, m := range movs {
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now()
		}
		if err := a.repo.Create(ctx, m); err != nil {
			a.log.Warn().Err(err).
				Str("product_id", m.ProductID).
				Str("branch_id", m.ToBranchID).
				Str("source", m.Source).
				Int("quantity", m.Quantity).
				Msg("no se pudo registrar el movimiento de stock")
			continue
		}
		saved = append(saved, m)
	}
	return saved
}
