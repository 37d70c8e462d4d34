// Package pricing resuelve el precio de venta de un producto en una sucursal.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Sucursales-api/internal/domain"
	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// ResolvePrice devuelve el precio del override de la sucursal, o el precio base si no hay override.
func ResolvePrice(p *entity.Product, branchID string) decimal.Decimal {
	if bp := p.BranchPrice(branchID); bp != nil {
		return bp.Price
	}
	return p.Price
}

// SetBranchPrice crea o actualiza el override de la sucursal. Price y markup son opcionales
// de forma independiente al actualizar; para crear un override el precio es obligatorio.
func SetBranchPrice(p *entity.Product, branchID string, price, markup *decimal.Decimal) error {
	if branchID == "" {
		return domain.Invalid("branchId", "requerido")
	}
	if price != nil && price.IsNegative() {
		return domain.Invalid("price", "no puede ser negativo")
	}
	if bp := p.BranchPrice(branchID); bp != nil {
		if price != nil {
			bp.Price = *price
		}
		if markup != nil {
			m := *markup
			bp.Markup = &m
		}
		return nil
	}
	if price == nil {
		return domain.Invalid("price", "requerido para crear el precio de sucursal")
	}
	bp := entity.BranchPrice{BranchID: branchID, Price: *price}
	if markup != nil {
		m := *markup
		bp.Markup = &m
	}
	p.BranchPrices = append(p.BranchPrices, bp)
	return nil
}

// ClearBranchPrice elimina el override de la sucursal. Devuelve false si no existía.
func ClearBranchPrice(p *entity.Product, branchID string) bool {
	for i := range p.BranchPrices {
		if p.BranchPrices[i].BranchID == branchID {
			p.BranchPrices = append(p.BranchPrices[:i], p.BranchPrices[i+1:]...)
			return true
		}
	}
	return false
}

// PriceFor calcula base × rate × (1 + markup/100) redondeado a 2 decimales.
func PriceFor(base, rate, markup decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(markup.Div(hundred))
	return base.Mul(rate).Mul(factor).Round(2)
}

// Recalculate aplica la tasa al override de la sucursal. Solo toca productos con precio base positivo
// y con override con markup numérico; con force crea el override con markup 0 si no existe.
// Devuelve true si el producto fue modificado.
func Recalculate(p *entity.Product, branchID string, rate decimal.Decimal, force bool) bool {
	if !p.Price.IsPositive() {
		return false
	}
	bp := p.BranchPrice(branchID)
	switch {
	case bp != nil && bp.Markup != nil:
		bp.Price = PriceFor(p.Price, rate, *bp.Markup)
	case bp != nil && force:
		zero := decimal.Zero
		bp.Price = PriceFor(p.Price, rate, zero)
		bp.Markup = &zero
	case bp == nil && force:
		zero := decimal.Zero
		p.BranchPrices = append(p.BranchPrices, entity.BranchPrice{
			BranchID: branchID,
			Price:    PriceFor(p.Price, rate, decimal.Zero),
			Markup:   &zero,
		})
	default:
		return false
	}
	return true
}
