package repository

import (
	"context"

	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	// ExistsEmailOrUsername indica si ya hay un usuario con ese email o ese username.
	ExistsEmailOrUsername(ctx context.Context, email, username string) (bool, error)
}
