// Package pricing expone los precios por sucursal: override manual, borrado y recálculo masivo
// a partir de la tasa de cambio.
package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	appinv "github.com/jhoicas/Sucursales-api/internal/application/inventory"
	"github.com/jhoicas/Sucursales-api/internal/domain"
	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
	"github.com/jhoicas/Sucursales-api/internal/domain/pricing"
)

// recalcLockTTL tiempo máximo que un recálculo retiene el lock de la sucursal.
const recalcLockTTL = 30 * time.Second

// Locker serializa operaciones por clave entre instancias.
// Acquire devuelve domain.ErrConflict si la clave ya está tomada.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, err error)
}

// UseCase precios por sucursal.
type UseCase struct {
	txRunner appinv.TxRunner
	locker   Locker
	log      zerolog.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner appinv.TxRunner, locker Locker, log zerolog.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, locker: locker, log: log}
}

// SetBranchPrice crea o actualiza el override de la sucursal. Solo cambian los campos enviados.
func (uc *UseCase) SetBranchPrice(ctx context.Context, p *entity.Principal, productID, branchID string, price, markup *decimal.Decimal) (*entity.Product, error) {
	if !p.CanManageBranch(branchID) {
		return nil, domain.ErrForbidden
	}
	if price == nil && markup == nil {
		return nil, domain.Invalid("", "debe enviar price o markup")
	}
	if price != nil && price.IsNegative() {
		return nil, domain.Invalid("price", "no puede ser negativo")
	}
	return uc.mutate(ctx, productID, branchID, func(prod *entity.Product) error {
		return pricing.SetBranchPrice(prod, branchID, price, markup)
	})
}

// ClearBranchPrice elimina el override; la sucursal vuelve a usar el precio base.
func (uc *UseCase) ClearBranchPrice(ctx context.Context, p *entity.Principal, productID, branchID string) (*entity.Product, error) {
	if !p.CanManageBranch(branchID) {
		return nil, domain.ErrForbidden
	}
	return uc.mutate(ctx, productID, branchID, func(prod *entity.Product) error {
		pricing.ClearBranchPrice(prod, branchID)
		return nil
	})
}

func (uc *UseCase) mutate(ctx context.Context, productID, branchID string, fn func(*entity.Product) error) (*entity.Product, error) {
	var out *entity.Product
	err := uc.txRunner.Run(ctx, func(r appinv.Repos) error {
		branch, err := r.Branches.GetByID(ctx, branchID)
		if err != nil {
			return err
		}
		if branch == nil {
			return fmt.Errorf("sucursal %s: %w", branchID, domain.ErrNotFound)
		}
		prod, err := r.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if prod == nil {
			return domain.ErrNotFound
		}
		if err := fn(prod); err != nil {
			return err
		}
		prod.UpdatedAt = time.Now()
		if err := r.Products.Update(ctx, prod); err != nil {
			return err
		}
		out = prod
		return nil
	})
	return out, err
}

// RecalculateAllForBranch aplica base × rate × (1 + markup/100) a todos los overrides de la sucursal
// que tienen markup; con force también crea o completa los que no lo tienen (markup 0).
// Corre en una sola transacción, serializada por sucursal. Devuelve la cantidad de productos tocados.
func (uc *UseCase) RecalculateAllForBranch(ctx context.Context, p *entity.Principal, branchID string, rate decimal.Decimal, force bool) (int, error) {
	if !p.CanManageBranch(branchID) {
		return 0, domain.ErrForbidden
	}
	if !rate.IsPositive() {
		return 0, domain.Invalid("rate", "rate inválida")
	}

	release, err := uc.locker.Acquire(ctx, "pricing:recalculate:"+branchID, recalcLockTTL)
	if err != nil {
		uc.log.Warn().Err(err).Str("branch_id", branchID).Msg("recálculo de precios en curso para la sucursal")
		return 0, err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			uc.log.Warn().Err(err).Str("branch_id", branchID).Msg("no se pudo liberar el lock de precios")
		}
	}()

	count := 0
	err = uc.txRunner.Run(ctx, func(r appinv.Repos) error {
		count = 0
		branch, err := r.Branches.GetByID(ctx, branchID)
		if err != nil {
			return err
		}
		if branch == nil {
			return fmt.Errorf("sucursal %s: %w", branchID, domain.ErrNotFound)
		}
		products, err := r.Products.List(ctx)
		if err != nil {
			return err
		}
		now := time.Now()
		for _, prod := range products {
			if !pricing.Recalculate(prod, branchID, rate, force) {
				continue
			}
			prod.UpdatedAt = now
			if err := r.Products.Update(ctx, prod); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	uc.log.Info().Str("branch_id", branchID).Str("rate", rate.String()).Bool("force", force).Int("updated", count).
		Msg("precios de sucursal recalculados")
	return count, nil
}

