// Package costing implementa el costeo de insumos: costo real por unidad base
// ajustado por merma, promedio ponderado entre compras y derivación de margen
// (servicios de dominio puros sobre decimal).
package costing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/unit"
)

var hundred = decimal.NewFromInt(100)

// UsableQuantity cantidad utilizable tras descontar la merma declarada:
// qty * (1 - wastePercent/100), redondeada a precisión de cantidades.
func UsableQuantity(qty, wastePercent decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(wastePercent.Div(hundred))
	return qty.Mul(factor).Round(unit.QuantityPrecision)
}

// TrueUnitCost calcula el costo real por unidad base de una compra:
// precio total dividido por la cantidad utilizable (normalizada a unidad base
// y ajustada por merma). Redondeado a precisión de costos.
//
// Rechaza precio o cantidad no positivos (ErrInvalidInput), merma fuera de
// [0,100] (ErrInvalidWastePercent) y merma que consume todo (ErrZeroUsableQuantity).
func TrueUnitCost(price, wastePercent, qty decimal.Decimal, u unit.Unit) (decimal.Decimal, error) {
	if !price.GreaterThan(decimal.Zero) || !qty.GreaterThan(decimal.Zero) {
		return decimal.Zero, domain.ErrInvalidInput
	}
	if wastePercent.LessThan(decimal.Zero) || wastePercent.GreaterThan(hundred) {
		return decimal.Zero, domain.ErrInvalidWastePercent
	}
	usable := UsableQuantity(unit.ToBase(qty, u), wastePercent)
	if !usable.GreaterThan(decimal.Zero) {
		return decimal.Zero, domain.ErrZeroUsableQuantity
	}
	return price.Div(usable).Round(unit.CostPrecision), nil
}

// WeightedAverage costo promedio ponderado al fusionar una compra en un lote:
// ((qtyActual * costoActual) + (qtyEntrada * costoEntrada)) / (qtyActual + qtyEntrada)
func WeightedAverage(currentQty, currentCost, incomingQty, incomingCost decimal.Decimal) decimal.Decimal {
	sum := currentQty.Add(incomingQty)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := currentQty.Mul(currentCost).Add(incomingQty.Mul(incomingCost))
	return num.Div(sum).Round(unit.CostPrecision)
}

// Estados de rentabilidad derivados exclusivamente del signo del margen.
const (
	StatusProfitable   = "profitable"
	StatusBreakingEven = "breaking_even"
	StatusLosingMoney  = "losing_money"
)

// Margin deriva monto, porcentaje y estado de rentabilidad a partir del precio
// de venta y el costo total. Nunca se setean de forma independiente.
func Margin(sellPrice, totalCost decimal.Decimal) (amount, percent decimal.Decimal, status string) {
	amount = sellPrice.Sub(totalCost).Round(unit.QuantityPrecision)
	percent = decimal.Zero
	if sellPrice.GreaterThan(decimal.Zero) {
		percent = amount.Div(sellPrice).Mul(hundred).Round(unit.QuantityPrecision)
	}
	switch {
	case amount.GreaterThan(decimal.Zero):
		status = StatusProfitable
	case amount.IsZero():
		status = StatusBreakingEven
	default:
		status = StatusLosingMoney
	}
	return amount, percent, status
}
