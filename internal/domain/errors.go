package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
// Todos se recuperan en el límite de la unidad de trabajo: la operación
// completa falla limpia, sin mutaciones parciales.
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists  = errors.New("el email ya está registrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrIncompatibleUnits   = errors.New("unidades de familias incompatibles")
	ErrNegativeStock       = errors.New("stock negativo detectado")
	ErrInvalidWastePercent = errors.New("porcentaje de merma fuera de [0,100]")
	ErrZeroUsableQuantity  = errors.New("la merma consume toda la cantidad comprada")
)

// InsufficientStockError lleva el detalle del faltante para mostrarlo al caller.
// Envuelve ErrInsufficientStock para que errors.Is siga funcionando en los handlers.
type InsufficientStockError struct {
	IngredientID   string
	IngredientName string
	Available      decimal.Decimal
	Required       decimal.Decimal
	Unit           string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente de %s: disponible %s %s, requerido %s %s",
		e.IngredientName, e.Available.String(), e.Unit, e.Required.String(), e.Unit)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
