package auth

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Sucursales-api/internal/application/dto"
	"github.com/jhoicas/Sucursales-api/internal/domain"
	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
	"github.com/jhoicas/Sucursales-api/internal/domain/repository"
	"github.com/jhoicas/Sucursales-api/pkg/jwt"
)

var credentialPattern = regexp.MustCompile(`^[A-Za-z0-9_.!]+$`)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	userRepo   repository.UserRepository
	branchRepo repository.BranchRepository
	jwtCfg     JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, branchRepo repository.BranchRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, branchRepo: branchRepo, jwtCfg: jwtCfg}
}

// RegisterUser crea un usuario: normaliza el email, hashea password con bcrypt y persiste.
// Devuelve ErrEmailAlreadyExists si el email o el username ya están registrados.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.TrimSpace(in.Username)
	if !credentialPattern.MatchString(username) {
		return nil, domain.Invalid("username", "solo letras, números y _ . !")
	}
	if !credentialPattern.MatchString(in.Password) {
		return nil, domain.Invalid("password", "solo letras, números y _ . !")
	}
	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}
	if !entity.IsValidRole(role) {
		return nil, domain.Invalid("role", "rol inválido")
	}
	branchID := ""
	if role == entity.RoleBranchAdmin {
		if in.BranchID == "" {
			return nil, domain.Invalid("branchId", "es requerido para admin_sucursal")
		}
		branch, err := uc.branchRepo.GetByID(ctx, in.BranchID)
		if err != nil {
			return nil, err
		}
		if branch == nil {
			return nil, domain.Invalid("branchId", "sucursal no encontrada")
		}
		branchID = in.BranchID
	}

	exists, err := uc.userRepo.ExistsEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Fullname:     strings.TrimSpace(in.Fullname),
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		BranchID:     branchID,
		IsAdmin:      role != entity.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica username/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.BranchID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

// EnsureCentralAdmin crea el administrador central inicial si el username no existe.
// Devuelve true si lo creó.
func (uc *AuthUseCase) EnsureCentralAdmin(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}
	existing, err := uc.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{
		Fullname: "Administrador central",
		Email:    username + "@sucursales.local",
		Username: username,
		Password: password,
		Role:     entity.RoleCentralAdmin,
	})
	return err == nil, err
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Fullname:  u.Fullname,
		Email:     u.Email,
		Username:  u.Username,
		Role:      u.Role,
		BranchID:  u.BranchID,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
