package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/Sucursales-api/internal/domain"
)

// LocalLocker locks dentro del proceso. Sirve para una sola instancia o para tests.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]time.Time
}

// NewLocalLocker construye el locker en memoria.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]time.Time)}
}

// Acquire toma la clave hasta que se libere o venza ttl.
func (l *LocalLocker) Acquire(_ context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	if exp, ok := l.held[key]; ok && now.Before(exp) {
		return nil, fmt.Errorf("lock %s: %w", key, domain.ErrConflict)
	}
	expires := now.Add(ttl)
	l.held[key] = expires
	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.held[key].Equal(expires) {
			delete(l.held, key)
		}
		return nil
	}, nil
}
