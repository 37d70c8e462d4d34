package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Sucursales-api/internal/application/inventory"
	"github.com/jhoicas/Sucursales-api/internal/domain"
	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
	"github.com/jhoicas/Sucursales-api/internal/infrastructure/memory"
)

func seedBranch(t *testing.T, s *memory.Store, available int) {
	t.Helper()
	require.NoError(t, memory.NewBranchRepository(s).Create(context.Background(), &entity.Branch{
		ID:    "b1",
		Name:  "Centro",
		Stock: []entity.StockEntry{{ProductID: "p1", Available: available}},
	}))
}

func TestUpdate_CompareAndSwap(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedBranch(t, s, 5)
	repo := memory.NewBranchRepository(s)

	a, err := repo.GetByID(ctx, "b1")
	require.NoError(t, err)
	b, err := repo.GetByID(ctx, "b1")
	require.NoError(t, err)

	a.Stock[0].Available = 4
	require.NoError(t, repo.Update(ctx, a))
	assert.Equal(t, int64(1), a.Version, "la versión avanza al escribir")

	b.Stock[0].Available = 3
	err = repo.Update(ctx, b)
	assert.ErrorIs(t, err, domain.ErrWriteConflict, "la segunda escritura con versión vieja debe fallar")

	got, _ := repo.GetByID(ctx, "b1")
	assert.Equal(t, 4, got.Stock[0].Available)
}

func TestGet_DevuelveCopias(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedBranch(t, s, 5)
	repo := memory.NewBranchRepository(s)

	b, _ := repo.GetByID(ctx, "b1")
	b.Stock[0].Available = 0

	again, _ := repo.GetByID(ctx, "b1")
	assert.Equal(t, 5, again.Stock[0].Available, "modificar la copia no toca el store")
}

func TestTxRunner_ErrorDescartaEscrituras(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedBranch(t, s, 5)
	runner := memory.NewTxRunner(s)

	boom := errors.New("boom")
	err := runner.Run(ctx, func(r inventory.Repos) error {
		b, err := r.Branches.GetByID(ctx, "b1")
		require.NoError(t, err)
		b.Stock[0].Available = 1
		require.NoError(t, r.Branches.Update(ctx, b))

		inTx, _ := r.Branches.GetByID(ctx, "b1")
		assert.Equal(t, 1, inTx.Stock[0].Available, "dentro de la tx se ven las escrituras propias")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, _ := memory.NewBranchRepository(s).GetByID(ctx, "b1")
	assert.Equal(t, 5, got.Stock[0].Available)
	assert.Equal(t, int64(0), got.Version)
}

func TestTxRunner_ConflictoAlConfirmar(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedBranch(t, s, 5)
	runner := memory.NewTxRunner(s)
	outside := memory.NewBranchRepository(s)

	err := runner.Run(ctx, func(r inventory.Repos) error {
		b, _ := r.Branches.GetByID(ctx, "b1")
		b.Stock[0].Available = 2
		require.NoError(t, r.Branches.Update(ctx, b))

		// otro request escribe la misma sucursal antes del commit
		other, _ := outside.GetByID(ctx, "b1")
		other.Stock[0].Available = 9
		require.NoError(t, outside.Update(ctx, other))
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrWriteConflict)

	got, _ := outside.GetByID(ctx, "b1")
	assert.Equal(t, 9, got.Stock[0].Available, "la tx en conflicto no se aplica")
}

func TestTxRunner_ConfirmaVariasEntidades(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedBranch(t, s, 5)
	runner := memory.NewTxRunner(s)

	err := runner.Run(ctx, func(r inventory.Repos) error {
		b, _ := r.Branches.GetByID(ctx, "b1")
		b.Stock[0].Available = 3
		if err := r.Branches.Update(ctx, b); err != nil {
			return err
		}
		return r.Orders.Create(ctx, &entity.Order{ID: "o1", BranchID: "b1", Status: entity.OrderPending})
	})
	require.NoError(t, err)

	o, _ := memory.NewOrderRepository(s).GetByID(ctx, "o1")
	require.NotNil(t, o)
	b, _ := memory.NewBranchRepository(s).GetByID(ctx, "b1")
	assert.Equal(t, 3, b.Stock[0].Available)
}

func TestMovementRepo_FallaSimulada(t *testing.T) {
	s := memory.NewStore()
	s.FailMovements(errors.New("disco lleno"))
	err := memory.NewMovementRepository(s).Create(context.Background(), &entity.StockMovement{ID: "m1"})
	assert.Error(t, err)

	s.FailMovements(nil)
	assert.NoError(t, memory.NewMovementRepository(s).Create(context.Background(), &entity.StockMovement{ID: "m1"}))
}
