package lock_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Sucursales-api/internal/domain"
	"github.com/jhoicas/Sucursales-api/internal/infrastructure/lock"
)

func TestLocalLocker_Exclusion(t *testing.T) {
	ctx := context.Background()
	l := lock.NewLocalLocker()

	release, err := l.Acquire(ctx, "b1", time.Minute)
	require.NoError(t, err)

	_, err = l.Acquire(ctx, "b1", time.Minute)
	assert.ErrorIs(t, err, domain.ErrConflict, "la misma clave no se puede tomar dos veces")

	_, err = l.Acquire(ctx, "b2", time.Minute)
	assert.NoError(t, err, "otra clave es independiente")

	require.NoError(t, release(ctx))
	_, err = l.Acquire(ctx, "b1", time.Minute)
	assert.NoError(t, err)
}

func TestLocalLocker_Vencimiento(t *testing.T) {
	ctx := context.Background()
	l := lock.NewLocalLocker()

	stale, err := l.Acquire(ctx, "b1", time.Millisecond)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	_, err = l.Acquire(ctx, "b1", time.Minute)
	require.NoError(t, err, "un lock vencido se puede volver a tomar")

	// liberar el lock viejo no suelta el nuevo
	require.NoError(t, stale(ctx))
	_, err = l.Acquire(ctx, "b1", time.Minute)
	assert.ErrorIs(t, err, domain.ErrConflict)
}
