package inventory_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Sucursales-api/internal/domain"
	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
	"github.com/jhoicas/Sucursales-api/internal/domain/inventory"
)

func entry(available, reserved int) *entity.StockEntry {
	return &entity.StockEntry{ProductID: "p1", Available: available, Reserved: reserved}
}

// ──────────────────────────────────────────────────────────────────────────────
// Reserve / Release / ConfirmReservation
// ──────────────────────────────────────────────────────────────────────────────

func TestReserve_MueveDisponibleAReservado(t *testing.T) {
	e := entry(5, 0)
	require.NoError(t, inventory.Reserve(e, 2))
	assert.Equal(t, 3, e.Available)
	assert.Equal(t, 2, e.Reserved)
}

func TestReserve_StockInsuficienteNoModifica(t *testing.T) {
	e := entry(3, 1)
	err := inventory.Reserve(e, 4)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	var detail *domain.InsufficientStockError
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, 3, detail.Available)
	assert.Equal(t, 4, detail.Requested)

	assert.Equal(t, 3, e.Available, "la entrada no debe cambiar")
	assert.Equal(t, 1, e.Reserved)
}

func TestReserve_CantidadNoPositiva(t *testing.T) {
	e := entry(3, 0)
	assert.ErrorIs(t, inventory.Reserve(e, 0), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, inventory.Reserve(e, -1), domain.ErrInvalidQuantity)
}

func TestReserveRelease_RoundTrip(t *testing.T) {
	e := entry(10, 4)
	require.NoError(t, inventory.Reserve(e, 6))
	c, err := inventory.Release(e, 6)
	require.NoError(t, err)

	assert.False(t, c.Clamped())
	assert.Equal(t, 10, e.Available)
	assert.Equal(t, 4, e.Reserved)
}

func TestConfirmReservation_NoDevuelveDisponible(t *testing.T) {
	e := entry(8, 0)
	require.NoError(t, inventory.Reserve(e, 3))
	_, err := inventory.ConfirmReservation(e, 3)
	require.NoError(t, err)

	assert.Equal(t, 5, e.Available, "la reserva confirmada no vuelve al disponible")
	assert.Equal(t, 0, e.Reserved)
}

func TestRelease_AcotaReservadoEnCeroYLoInforma(t *testing.T) {
	e := entry(1, 2)
	c, err := inventory.Release(e, 5)
	require.NoError(t, err)

	assert.True(t, c.Clamped())
	assert.Equal(t, 5, c.Wanted)
	assert.Equal(t, 2, c.Had)
	assert.Equal(t, 0, e.Reserved)
	assert.Equal(t, 6, e.Available)
}

func TestConfirmReservation_AcotaEnCero(t *testing.T) {
	e := entry(4, 1)
	c, err := inventory.ConfirmReservation(e, 3)
	require.NoError(t, err)
	assert.True(t, c.Clamped())
	assert.Equal(t, 0, e.Reserved)
	assert.Equal(t, 4, e.Available)
}

// Conservación: available + reserved nunca supera el stock inicial y ninguno es negativo.
func TestConservacion_SecuenciaDeOperaciones(t *testing.T) {
	const initial = 20
	e := entry(initial, 0)
	steps := []func() error{
		func() error { return inventory.Reserve(e, 5) },
		func() error { _, err := inventory.ConfirmReservation(e, 2); return err },
		func() error { return inventory.Reserve(e, 7) },
		func() error { _, err := inventory.Release(e, 4); return err },
		func() error { return inventory.ConsumeDirect(e, 3) },
		func() error { _, err := inventory.ConfirmReservation(e, 10); return err },
		func() error { return inventory.Reserve(e, 100) },
	}
	for i, step := range steps {
		_ = step()
		assert.LessOrEqual(t, e.Available+e.Reserved, initial, "paso %d", i)
		assert.GreaterOrEqual(t, e.Available, 0, "paso %d", i)
		assert.GreaterOrEqual(t, e.Reserved, 0, "paso %d", i)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// FulfillmentMode
// ──────────────────────────────────────────────────────────────────────────────

func TestModeFor(t *testing.T) {
	assert.Equal(t, inventory.Reserved, inventory.ModeFor(nil), "anónimo reserva")
	assert.Equal(t, inventory.Reserved, inventory.ModeFor(&entity.Principal{Role: entity.RoleUser}))
	assert.Equal(t, inventory.Direct, inventory.ModeFor(&entity.Principal{Role: entity.RoleBranchAdmin, BranchID: "b1"}))
	assert.Equal(t, inventory.Direct, inventory.ModeFor(&entity.Principal{Role: entity.RoleCentralAdmin}))
}

func TestApply_DirectNoReserva(t *testing.T) {
	e := entry(5, 0)
	require.NoError(t, inventory.Apply(inventory.Direct, e, 2))
	assert.Equal(t, 3, e.Available)
	assert.Equal(t, 0, e.Reserved)

	require.NoError(t, inventory.Apply(inventory.Reserved, e, 2))
	assert.Equal(t, 1, e.Available)
	assert.Equal(t, 2, e.Reserved)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transferencias desde central
// ──────────────────────────────────────────────────────────────────────────────

func TestTransferOut_CantidadExactaDejaCentralEnCero(t *testing.T) {
	central, err := inventory.TransferOut(7, 7)
	require.NoError(t, err)
	assert.Equal(t, 0, central)
}

func TestTransferOut_UnoMasFallaSinCambios(t *testing.T) {
	central, err := inventory.TransferOut(7, 8)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientCentralStock)
	assert.NotErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 7, central)
}

func TestTransferIn_CreaEntrada(t *testing.T) {
	b := &entity.Branch{ID: "b1"}
	e := b.EnsureStock("p9")
	require.NoError(t, inventory.TransferIn(e, 4))

	got, ok := b.FindStock("p9")
	require.True(t, ok)
	assert.Equal(t, 4, got.Available)
	assert.Equal(t, 0, got.Reserved)
}

func TestAdjustCentral(t *testing.T) {
	next, c := inventory.AdjustCentral(5, 3)
	assert.Equal(t, 8, next)
	assert.False(t, c.Clamped())

	next, c = inventory.AdjustCentral(5, -9)
	assert.Equal(t, 0, next)
	assert.True(t, c.Clamped())
}
