package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// WasteRecord registro inmutable de merma contra un lote: mueve cantidad de
// "remaining" a "wasted" sin tocar el total comprado. Nunca se edita ni borra
// de forma individual.
type WasteRecord struct {
	ID           string
	StockBatchID string
	Quantity     decimal.Decimal // en la unidad base del lote
	Reason       string          // 1..255 caracteres
	CreatedAt    time.Time
}
