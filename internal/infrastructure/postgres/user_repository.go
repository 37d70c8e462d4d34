package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/Sucursales-api/internal/domain"
	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
	"github.com/jhoicas/Sucursales-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

var userColumns = []string{
	"id", "fullname", "email", "username", "password_hash", "role", "branch_id", "is_admin",
	"created_at", "updated_at",
}

type userRow struct {
	ID           string    `db:"id"`
	Fullname     string    `db:"fullname"`
	Email        string    `db:"email"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	BranchID     string    `db:"branch_id"`
	IsAdmin      bool      `db:"is_admin"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario. Email o username repetido devuelve ErrEmailAlreadyExists.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	ins := psql.Insert("users").Columns(userColumns...).Values(
		u.ID, u.Fullname, u.Email, u.Username, u.PasswordHash, u.Role, u.BranchID, u.IsAdmin,
		u.CreatedAt, u.UpdatedAt,
	)
	_, err := exec(ctx, r.q, ins, "insert user")
	if errors.Is(err, domain.ErrDuplicate) {
		return domain.ErrEmailAlreadyExists
	}
	return err
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// FindByUsername obtiene un usuario por username (sensible a mayúsculas).
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getOne(ctx, squirrel.Eq{"username": username})
}

// ExistsEmailOrUsername compara el email sin distinguir mayúsculas.
func (r *UserRepo) ExistsEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	sql, args, err := psql.Select("1").From("users").
		Where(squirrel.Or{squirrel.Expr("lower(email) = lower(?)", email), squirrel.Eq{"username": username}}).
		Limit(1).ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists user: %w", err)
	}
	var one int
	if err := pgxscan.Get(ctx, r.q, &one, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("exists user: %w", err)
	}
	return true, nil
}

func (r *UserRepo) getOne(ctx context.Context, where squirrel.Sqlizer) (*entity.User, error) {
	sql, args, err := psql.Select(userColumns...).From("users").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get user: %w", err)
	}
	var row userRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &entity.User{
		ID: row.ID, Fullname: row.Fullname, Email: row.Email, Username: row.Username,
		PasswordHash: row.PasswordHash, Role: row.Role, BranchID: row.BranchID, IsAdmin: row.IsAdmin,
		CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt,
	}, nil
}
