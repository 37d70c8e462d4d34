package entity

import "time"

// Roles válidos para User.
const (
	RoleUser         = "user"
	RoleBranchAdmin  = "admin_sucursal"
	RoleCentralAdmin = "admin_central"
)

// IsValidRole indica si r es un rol conocido.
func IsValidRole(r string) bool {
	return r == RoleUser || r == RoleBranchAdmin || r == RoleCentralAdmin
}

// User representa un usuario del sistema.
type User struct {
	ID           string
	Fullname     string
	Email        string
	Username     string
	PasswordHash string // bcrypt hash
	Role         string // user, admin_sucursal, admin_central
	BranchID     string // solo para admin_sucursal
	IsAdmin      bool   // campo heredado, equivale a Role != user
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal identidad que actúa sobre el core (viene del token).
type Principal struct {
	UserID   string
	Role     string
	BranchID string
}

// IsCentralAdmin indica si el principal es administrador central.
func (p *Principal) IsCentralAdmin() bool { return p != nil && p.Role == RoleCentralAdmin }

// IsBranchAdmin indica si el principal es administrador de sucursal.
func (p *Principal) IsBranchAdmin() bool { return p != nil && p.Role == RoleBranchAdmin }

// IsPrivileged indica si el principal es cualquier tipo de administrador.
func (p *Principal) IsPrivileged() bool { return p.IsCentralAdmin() || p.IsBranchAdmin() }

// CanManageBranch: el admin central gestiona todas; el de sucursal solo la suya.
func (p *Principal) CanManageBranch(branchID string) bool {
	if p.IsCentralAdmin() {
		return true
	}
	return p.IsBranchAdmin() && p.BranchID != "" && p.BranchID == branchID
}
