package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// Variantes de ErrNotFound por entidad; errors.Is(err, ErrNotFound) sigue siendo true.
var (
	ErrProductNotFound    = fmt.Errorf("producto: %w", ErrNotFound)
	ErrCompanyNotFound    = fmt.Errorf("empresa: %w", ErrNotFound)
	ErrStockEntryNotFound = fmt.Errorf("registro de stock: %w", ErrNotFound)
)

// ValidationError agrupa los campos inválidos de una entrada. Se compara con
// errors.Is(err, ErrInvalidInput).
type ValidationError struct {
	Fields map[string]string // campo -> regla violada
}

// NewValidationError crea un ValidationError con un único campo.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrInvalidInput.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
