package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/domain/unit"
)

// StockBatch representa un lote de compra de un insumo.
// Todas las cantidades se normalizan a la unidad base del insumo al momento de
// escribir (una compra en "L" se guarda en ml), de modo que la agregación entre
// lotes nunca convierte filas históricas.
//
// Invariantes: RemainingQuantity >= 0 siempre;
// RemainingQuantity + WastedQuantity <= PurchasedQuantity * (1 - WastePercent/100)
// al crear el lote.
type StockBatch struct {
	ID                  string
	IngredientID        string
	PurchasedQuantity   decimal.Decimal // total comprado, en unidad base
	Unit                unit.Unit       // unidad base de la familia del insumo
	TotalPurchasedPrice decimal.Decimal
	PricePerBaseUnit    decimal.Decimal // promedio ponderado entre compras fusionadas
	WastePercent        decimal.Decimal // merma al momento de la compra
	RemainingQuantity   decimal.Decimal // utilizable, ya ajustado por merma
	WastedQuantity      decimal.Decimal
	PurchasedAt         time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// HasRemaining indica si el lote aún tiene cantidad utilizable.
func (b *StockBatch) HasRemaining() bool {
	return b.RemainingQuantity.GreaterThan(decimal.Zero)
}
