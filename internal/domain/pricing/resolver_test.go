package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Sucursales-api/internal/domain"
	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
	"github.com/jhoicas/Sucursales-api/internal/domain/pricing"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func product() *entity.Product {
	return &entity.Product{ID: "p1", SKU: "SKU-1", Price: dec("10")}
}

func TestResolvePrice_OverrideTienePrecedencia(t *testing.T) {
	p := product()
	assert.True(t, dec("10").Equal(pricing.ResolvePrice(p, "b1")), "sin override usa el precio base")

	require.NoError(t, pricing.SetBranchPrice(p, "b1", ptr("15.5"), nil))
	assert.True(t, dec("15.5").Equal(pricing.ResolvePrice(p, "b1")))
	assert.True(t, dec("10").Equal(pricing.ResolvePrice(p, "b2")), "otra sucursal sigue con el base")

	assert.True(t, pricing.ClearBranchPrice(p, "b1"))
	assert.True(t, dec("10").Equal(pricing.ResolvePrice(p, "b1")), "al limpiar vuelve al precio base")
	assert.False(t, pricing.ClearBranchPrice(p, "b1"))
}

func TestSetBranchPrice_CamposIndependientes(t *testing.T) {
	p := product()
	require.NoError(t, pricing.SetBranchPrice(p, "b1", ptr("12"), ptr("20")))
	require.NoError(t, pricing.SetBranchPrice(p, "b1", nil, ptr("35")))

	bp := p.BranchPrice("b1")
	require.NotNil(t, bp)
	assert.True(t, dec("12").Equal(bp.Price), "el precio no cambia si no se envía")
	assert.True(t, dec("35").Equal(*bp.Markup))
	assert.Len(t, p.BranchPrices, 1, "a lo sumo un override por sucursal")

	require.NoError(t, pricing.SetBranchPrice(p, "b1", ptr("13"), nil))
	assert.True(t, dec("13").Equal(p.BranchPrice("b1").Price))
	assert.True(t, dec("35").Equal(*p.BranchPrice("b1").Markup))
}

func TestSetBranchPrice_NuevoSinPrecioEsInvalido(t *testing.T) {
	p := product()
	err := pricing.SetBranchPrice(p, "b1", nil, ptr("10"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, p.BranchPrices)
}

func TestRecalculate(t *testing.T) {
	t.Run("override con markup se recalcula", func(t *testing.T) {
		p := product()
		require.NoError(t, pricing.SetBranchPrice(p, "b1", ptr("1"), ptr("20")))
		assert.True(t, pricing.Recalculate(p, "b1", dec("1000"), false))
		// 10 × 1000 × 1.2
		assert.Equal(t, "12000", p.BranchPrice("b1").Price.String())
	})
	t.Run("override sin markup se ignora sin force", func(t *testing.T) {
		p := product()
		require.NoError(t, pricing.SetBranchPrice(p, "b1", ptr("1"), nil))
		assert.False(t, pricing.Recalculate(p, "b1", dec("2"), false))
		assert.Equal(t, "1", p.BranchPrice("b1").Price.String())
	})
	t.Run("force crea el override con markup cero", func(t *testing.T) {
		p := product()
		assert.True(t, pricing.Recalculate(p, "b1", dec("3.333"), true))
		bp := p.BranchPrice("b1")
		require.NotNil(t, bp)
		assert.Equal(t, "33.33", bp.Price.String())
		assert.True(t, bp.Markup.IsZero())
	})
	t.Run("precio base cero no se toca", func(t *testing.T) {
		p := product()
		p.Price = decimal.Zero
		assert.False(t, pricing.Recalculate(p, "b1", dec("2"), true))
		assert.Empty(t, p.BranchPrices)
	})
}
