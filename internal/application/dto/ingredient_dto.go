package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateIngredientRequest entrada para registrar un insumo.
type CreateIngredientRequest struct {
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	Unit         string          `json:"unit" validate:"required"`
	WastePercent decimal.Decimal `json:"waste_percent"`
}

// UpdateIngredientRequest entrada para actualizar un insumo. Cambiar merma o
// unidad dispara el recálculo de los campos de costo derivado.
type UpdateIngredientRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Unit         *string          `json:"unit"`
	WastePercent *decimal.Decimal `json:"waste_percent"`
}

// IngredientResponse salida de un insumo. Exactamente uno de los campos
// cost_per_* viene poblado según la familia de la unidad; null significa
// "no aplica" o "sin compras", nunca costo cero.
type IngredientResponse struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Unit         string           `json:"unit"`
	WastePercent decimal.Decimal  `json:"waste_percent"`
	CostPerML    *decimal.Decimal `json:"cost_per_ml,omitempty"`
	CostPerGram  *decimal.Decimal `json:"cost_per_gram,omitempty"`
	CostPerUnit  *decimal.Decimal `json:"cost_per_unit,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}
