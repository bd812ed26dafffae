package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/domain/unit"
)

// Product representa un producto elaborado a partir de una receta de insumos.
// TotalCost, MarginAmount, MarginPercent y Status son siempre derivados
// (recompute-on-write): se recalculan en cada create/update y cuando cambia
// el costo real de algún insumo de la receta. Nunca se setean directamente.
type Product struct {
	ID            string
	UserID        string
	Name          string
	SellPrice     decimal.Decimal
	TotalCost     decimal.Decimal // suma de los costos de línea de la receta
	MarginAmount  decimal.Decimal // SellPrice - TotalCost
	MarginPercent decimal.Decimal
	Status        string // profitable | breaking_even | losing_money
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RecipeLine vincula un producto con un insumo requerido.
// LineCost es el costo cacheado: cantidad convertida a unidad base por el
// costo real por unidad base del insumo al momento del recálculo.
type RecipeLine struct {
	ID           string
	ProductID    string
	IngredientID string
	Quantity     decimal.Decimal
	Unit         unit.Unit
	IsOptional   bool // línea opcional: sin stock no bloquea la venta
	LineCost     decimal.Decimal
}
