package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale representa una venta. Si ProductID es nil la venta es de un producto no
// reconocido (solo nombre libre) y no descuenta stock. La deducción de stock
// ocurre únicamente al crear la venta, dentro de la misma transacción.
type Sale struct {
	ID          string
	UserID      string
	ProductID   *string
	ProductName string
	Quantity    decimal.Decimal
	TotalAmount decimal.Decimal
	SoldAt      time.Time
	CreatedAt   time.Time
}

// SaleConsumption fila de bitácora: cuánto descontó una venta de cada lote.
// Hace auditable la conservación (comprado == restante + mermado + consumido)
// y permite revertir la deducción de forma determinista al borrar la venta.
type SaleConsumption struct {
	ID           string
	SaleID       string
	StockBatchID string
	IngredientID string
	Quantity     decimal.Decimal // en unidad base del lote
	CreatedAt    time.Time
}
