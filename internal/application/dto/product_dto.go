package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecipeLineRequest una línea de receta: insumo, cantidad y unidad requeridas.
type RecipeLineRequest struct {
	IngredientID string          `json:"ingredient_id" validate:"required,uuid"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit" validate:"required"`
	IsOptional   bool            `json:"is_optional"`
}

// CreateProductRequest entrada para crear un producto con su receta.
type CreateProductRequest struct {
	Name      string              `json:"name" validate:"required,min=1,max=200"`
	SellPrice decimal.Decimal     `json:"sell_price"`
	Recipe    []RecipeLineRequest `json:"recipe" validate:"required,min=1,dive"`
}

// UpdateProductRequest entrada para actualizar un producto. Si Recipe viene,
// reemplaza la receta completa; costo y margen se recalculan siempre.
type UpdateProductRequest struct {
	Name      *string             `json:"name" validate:"omitempty,min=1,max=200"`
	SellPrice *decimal.Decimal    `json:"sell_price"`
	Recipe    []RecipeLineRequest `json:"recipe" validate:"omitempty,min=1,dive"`
}

// RecipeLineResponse salida de una línea de receta con su costo cacheado.
type RecipeLineResponse struct {
	ID           string          `json:"id"`
	IngredientID string          `json:"ingredient_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	IsOptional   bool            `json:"is_optional"`
	LineCost     decimal.Decimal `json:"line_cost"`
}

// ProductResponse salida de un producto con margen y estado derivados.
type ProductResponse struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	SellPrice     decimal.Decimal      `json:"sell_price"`
	TotalCost     decimal.Decimal      `json:"total_cost"`
	MarginAmount  decimal.Decimal      `json:"margin_amount"`
	MarginPercent decimal.Decimal      `json:"margin_percent"`
	Status        string               `json:"status"`
	Recipe        []RecipeLineResponse `json:"recipe,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// PriceSimulationRequest simulación what-if: delta de precio sobre un conjunto
// de productos. Solo lectura, no muta estado.
type PriceSimulationRequest struct {
	ProductIDs []string        `json:"product_ids" validate:"required,min=1"`
	PriceDelta decimal.Decimal `json:"price_delta"`
}

// PriceSimulationItem resultado hipotético de un producto con el delta aplicado.
type PriceSimulationItem struct {
	ProductID        string          `json:"product_id"`
	Name             string          `json:"name"`
	CurrentSellPrice decimal.Decimal `json:"current_sell_price"`
	NewSellPrice     decimal.Decimal `json:"new_sell_price"`
	NewMarginAmount  decimal.Decimal `json:"new_margin_amount"`
	NewMarginPercent decimal.Decimal `json:"new_margin_percent"`
	NewStatus        string          `json:"new_status"`
}

// SwapSimulationRequest simulación de sustitución de un insumo de la receta,
// opcionalmente cubierta por un sobreprecio. Solo lectura.
type SwapSimulationRequest struct {
	FromIngredientID string           `json:"from_ingredient_id" validate:"required,uuid"`
	ToIngredientID   string           `json:"to_ingredient_id" validate:"required,uuid"`
	Upcharge         *decimal.Decimal `json:"upcharge"`
}

// SwapSimulationResponse margen actual vs. hipotético tras la sustitución.
type SwapSimulationResponse struct {
	ProductID        string          `json:"product_id"`
	CurrentTotalCost decimal.Decimal `json:"current_total_cost"`
	NewTotalCost     decimal.Decimal `json:"new_total_cost"`
	CurrentMargin    decimal.Decimal `json:"current_margin"`
	NewMargin        decimal.Decimal `json:"new_margin"`
	MarginDelta      decimal.Decimal `json:"margin_delta"`
	NewStatus        string          `json:"new_status"`
}
