// Package lock implementa pricing.Locker con Redis (bsm/redislock) y un respaldo en proceso
// para cuando no hay REDIS_ADDR configurado.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Sucursales-api/internal/domain"
)

// RedisLocker locks distribuidos entre instancias de la API.
type RedisLocker struct {
	client *redis.Client
	locker *redislock.Client
}

// NewRedisLocker abre el cliente de Redis. No hace ping: usar Ping en el arranque.
func NewRedisLocker(addr, password string, db int) *RedisLocker {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisLocker{client: client, locker: redislock.New(client)}
}

// Ping verifica la conexión.
func (l *RedisLocker) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

// Close cierra el cliente.
func (l *RedisLocker) Close() error {
	return l.client.Close()
}

// Acquire toma la clave sin reintentos. Si ya está tomada devuelve domain.ErrConflict.
func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	lk, err := l.locker.Obtain(ctx, "lock:"+key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("lock %s: %w", key, domain.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", key, err)
	}
	return func(ctx context.Context) error {
		err := lk.Release(ctx)
		if errors.Is(err, redislock.ErrLockNotHeld) {
			// expiró el TTL antes de liberar
			return nil
		}
		return err
	}, nil
}
