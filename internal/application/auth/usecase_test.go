package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Sucursales-api/internal/application/auth"
	"github.com/jhoicas/Sucursales-api/internal/application/dto"
	"github.com/jhoicas/Sucursales-api/internal/domain"
	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
	"github.com/jhoicas/Sucursales-api/internal/infrastructure/memory"
	"github.com/jhoicas/Sucursales-api/pkg/jwt"
)

const secret = "secreto-de-prueba"

func newAuth(t *testing.T) *auth.AuthUseCase {
	t.Helper()
	s := memory.NewStore()
	require.NoError(t, memory.NewBranchRepository(s).Create(context.Background(), &entity.Branch{ID: "b1", Name: "Centro"}))
	return auth.NewAuthUseCase(memory.NewUserRepository(s), memory.NewBranchRepository(s),
		auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "sucursales-api"})
}

func register(in dto.RegisterRequest) dto.RegisterRequest {
	if in.Fullname == "" {
		in.Fullname = "Ana Pérez"
	}
	if in.Password == "" {
		in.Password = "clave_123!"
	}
	return in
}

// ─────────────────────────────────────────────────────────────────────────────
// Registro
// ─────────────────────────────────────────────────────────────────────────────

func TestRegister_NormalizaYRolPorDefecto(t *testing.T) {
	uc := newAuth(t)
	u, err := uc.RegisterUser(context.Background(), register(dto.RegisterRequest{Email: "  Ana@Mail.COM ", Username: "ana"}))
	require.NoError(t, err)
	assert.Equal(t, "ana@mail.com", u.Email)
	assert.Equal(t, entity.RoleUser, u.Role)
	assert.False(t, u.IsAdmin)
}

func TestRegister_Duplicado(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, register(dto.RegisterRequest{Email: "ana@mail.com", Username: "ana"}))
	require.NoError(t, err)

	_, err = uc.RegisterUser(ctx, register(dto.RegisterRequest{Email: "ANA@mail.com", Username: "otra"}))
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	_, err = uc.RegisterUser(ctx, register(dto.RegisterRequest{Email: "otra@mail.com", Username: "ana"}))
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_Validaciones(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()
	cases := []struct {
		nombre string
		in     dto.RegisterRequest
	}{
		{"username con espacios", dto.RegisterRequest{Email: "a@b.com", Username: "ana maria"}},
		{"password con caracteres no permitidos", dto.RegisterRequest{Email: "a@b.com", Username: "ana", Password: "clave#1"}},
		{"rol desconocido", dto.RegisterRequest{Email: "a@b.com", Username: "ana", Role: "root"}},
		{"admin de sucursal sin sucursal", dto.RegisterRequest{Email: "a@b.com", Username: "ana", Role: entity.RoleBranchAdmin}},
		{"admin de sucursal con sucursal inexistente", dto.RegisterRequest{Email: "a@b.com", Username: "ana", Role: entity.RoleBranchAdmin, BranchID: "zz"}},
	}
	for _, tc := range cases {
		t.Run(tc.nombre, func(t *testing.T) {
			_, err := uc.RegisterUser(ctx, register(tc.in))
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Login
// ─────────────────────────────────────────────────────────────────────────────

func TestLogin_TokenConRolYSucursal(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, register(dto.RegisterRequest{
		Email: "admin@b1.com", Username: "admin.b1", Role: entity.RoleBranchAdmin, BranchID: "b1",
	}))
	require.NoError(t, err)

	res, err := uc.Login(ctx, dto.LoginRequest{Username: "admin.b1", Password: "clave_123!"})
	require.NoError(t, err)
	assert.True(t, res.User.IsAdmin)

	userID, branchID, role, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, userID)
	assert.Equal(t, "b1", branchID)
	assert.Equal(t, entity.RoleBranchAdmin, role)
}

func TestLogin_Errores(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, register(dto.RegisterRequest{Email: "ana@mail.com", Username: "ana"}))
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "nadie", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestEnsureCentralAdmin(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()

	created, err := uc.EnsureCentralAdmin(ctx, "admin", "admin_123")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = uc.EnsureCentralAdmin(ctx, "admin", "admin_123")
	require.NoError(t, err)
	assert.False(t, created, "no se duplica")

	res, err := uc.Login(ctx, dto.LoginRequest{Username: "admin", Password: "admin_123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCentralAdmin, res.User.Role)
}
