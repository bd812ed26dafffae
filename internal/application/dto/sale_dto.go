package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordSaleRequest entrada para registrar una venta. ProductID vacío con
// ProductName poblado registra una venta de producto no reconocido (sin
// deducción de stock).
type RecordSaleRequest struct {
	ProductID   string          `json:"product_id" validate:"omitempty,uuid"`
	ProductName string          `json:"product_name" validate:"omitempty,max=200"`
	Quantity    decimal.Decimal `json:"quantity"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID          string          `json:"id"`
	ProductID   *string         `json:"product_id,omitempty"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	SoldAt      time.Time       `json:"sold_at"`
}

// SaleConsumptionResponse fila de la bitácora de consumo de una venta.
type SaleConsumptionResponse struct {
	ID           string          `json:"id"`
	StockBatchID string          `json:"stock_batch_id"`
	IngredientID string          `json:"ingredient_id"`
	Quantity     decimal.Decimal `json:"quantity"`
}
