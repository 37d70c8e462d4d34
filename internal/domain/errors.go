package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound                 = errors.New("recurso no encontrado")
	ErrUserNotFound             = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists       = errors.New("email o usuario ya registrado")
	ErrInvalidInput             = errors.New("entrada inválida")
	ErrDuplicate                = errors.New("recurso duplicado")
	ErrUnauthorized             = errors.New("no autorizado")
	ErrForbidden                = errors.New("acceso denegado")
	ErrConflict                 = errors.New("conflicto con el estado actual")
	ErrInsufficientStock        = errors.New("stock insuficiente")
	ErrInsufficientCentralStock = errors.New("stock central insuficiente")
	ErrStateConflict            = errors.New("la operación no es válida para el estado actual")
	ErrWriteConflict            = errors.New("el recurso fue modificado concurrentemente")
	ErrStockEntryNotFound       = errors.New("el producto no tiene stock registrado en la sucursal")
	ErrInvalidQuantity          = errors.New("cantidad inválida")
)

// ValidationError detalla qué campo de la entrada es inválido. errors.Is(err, ErrInvalidInput) es true.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// Invalid construye un ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InsufficientStockError lleva el detalle disponible vs solicitado.
// Central indica que la falta es del depósito central y no de la sucursal.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   int
	Requested   int
	Central     bool
}

func (e *InsufficientStockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = e.ProductID
	}
	if e.Central {
		return fmt.Sprintf("Stock central insuficiente para %s. Disponible: %d, solicitado: %d", name, e.Available, e.Requested)
	}
	return fmt.Sprintf("Stock insuficiente para %s. Disponible: %d, solicitado: %d", name, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool {
	if e.Central {
		return target == ErrInsufficientCentralStock
	}
	return target == ErrInsufficientStock
}

// StockEntryNotFoundError indica qué producto no tiene entrada en el ledger de la sucursal.
type StockEntryNotFoundError struct {
	BranchID  string
	ProductID string
}

func (e *StockEntryNotFoundError) Error() string {
	return fmt.Sprintf("producto %s no encontrado en el stock de la sucursal %s", e.ProductID, e.BranchID)
}

func (e *StockEntryNotFoundError) Is(target error) bool {
	return target == ErrStockEntryNotFound || target == ErrNotFound
}

// StateConflictError informa el estado actual cuando una transición no está permitida.
type StateConflictError struct {
	Entity  string
	Current string
	Want    string
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("%s en estado %q, se requiere %s", e.Entity, e.Current, e.Want)
}

func (e *StateConflictError) Is(target error) bool { return target == ErrStateConflict }
