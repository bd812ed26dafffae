package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterPurchaseRequest entrada para registrar una compra de insumo.
type RegisterPurchaseRequest struct {
	IngredientID string          `json:"ingredient_id" validate:"required,uuid"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit" validate:"required"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

// RecordWasteRequest entrada para registrar una merma contra un lote.
type RecordWasteRequest struct {
	StockBatchID string          `json:"stock_batch_id" validate:"required,uuid"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit" validate:"required"`
	Reason       string          `json:"reason" validate:"required,min=1,max=255"`
}

// StockBatchResponse salida de un lote del libro de stock.
type StockBatchResponse struct {
	ID                  string          `json:"id"`
	IngredientID        string          `json:"ingredient_id"`
	PurchasedQuantity   decimal.Decimal `json:"purchased_quantity"`
	Unit                string          `json:"unit"`
	TotalPurchasedPrice decimal.Decimal `json:"total_purchased_price"`
	PricePerBaseUnit    decimal.Decimal `json:"price_per_base_unit"`
	WastePercent        decimal.Decimal `json:"waste_percent"`
	RemainingQuantity   decimal.Decimal `json:"remaining_quantity"`
	WastedQuantity      decimal.Decimal `json:"wasted_quantity"`
	PurchasedAt         time.Time       `json:"purchased_at"`
}

// WasteRecordResponse salida de un registro de merma.
type WasteRecordResponse struct {
	ID           string          `json:"id"`
	StockBatchID string          `json:"stock_batch_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Reason       string          `json:"reason"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ValuationItemResponse valorización del stock restante de un insumo.
type ValuationItemResponse struct {
	IngredientID   string           `json:"ingredient_id"`
	IngredientName string           `json:"ingredient_name"`
	Unit           string           `json:"unit"`
	Remaining      decimal.Decimal  `json:"remaining"`
	CostPerBase    *decimal.Decimal `json:"cost_per_base,omitempty"`
	Value          decimal.Decimal  `json:"value"`
}
