package costing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/costing"
	"github.com/jhoicas/insumos-api/internal/domain/unit"
)

// TestTrueUnitCost_ConMerma compra de 1 kg de café a $40.000 con 10% de merma:
// 1000 g comprados, 900 g utilizables, costo real 44.4444 $/g.
func TestTrueUnitCost_ConMerma(t *testing.T) {
	cost, err := costing.TrueUnitCost(
		decimal.NewFromInt(40000),
		decimal.NewFromInt(10),
		decimal.NewFromInt(1),
		unit.Kilogram,
	)
	require.NoError(t, err)
	assert.True(t, cost.Equal(decimal.NewFromFloat(44.4444)), "got %s", cost)
}

// TestTrueUnitCost_SinMerma sin merma el costo es precio / cantidad base.
func TestTrueUnitCost_SinMerma(t *testing.T) {
	cost, err := costing.TrueUnitCost(
		decimal.NewFromInt(5000),
		decimal.Zero,
		decimal.NewFromInt(2),
		unit.Liter,
	)
	require.NoError(t, err)
	assert.True(t, cost.Equal(decimal.NewFromFloat(2.5)), "5000/2000ml, got %s", cost)
}

// TestTrueUnitCost_Conteo unidades de conteo usan la cantidad directa.
func TestTrueUnitCost_Conteo(t *testing.T) {
	cost, err := costing.TrueUnitCost(
		decimal.NewFromInt(1200),
		decimal.Zero,
		decimal.NewFromInt(30),
		unit.Count,
	)
	require.NoError(t, err)
	assert.True(t, cost.Equal(decimal.NewFromInt(40)), "got %s", cost)
}

// TestTrueUnitCost_Rechazos merma fuera de rango, merma total y entradas no
// positivas se rechazan antes de cualquier cálculo.
func TestTrueUnitCost_Rechazos(t *testing.T) {
	one := decimal.NewFromInt(1)

	_, err := costing.TrueUnitCost(one, decimal.NewFromInt(101), one, unit.Gram)
	assert.ErrorIs(t, err, domain.ErrInvalidWastePercent)

	_, err = costing.TrueUnitCost(one, decimal.NewFromInt(-1), one, unit.Gram)
	assert.ErrorIs(t, err, domain.ErrInvalidWastePercent)

	_, err = costing.TrueUnitCost(one, decimal.NewFromInt(100), one, unit.Gram)
	assert.ErrorIs(t, err, domain.ErrZeroUsableQuantity)

	_, err = costing.TrueUnitCost(decimal.Zero, decimal.Zero, one, unit.Gram)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = costing.TrueUnitCost(one, decimal.Zero, decimal.Zero, unit.Gram)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestWeightedAverage_Mezcla 100 unidades a $3 más 100 unidades a $1 dan
// promedio $2; y fusionar sobre un lote con 0 restante conserva el precio entrante.
func TestWeightedAverage_Mezcla(t *testing.T) {
	avg := costing.WeightedAverage(
		decimal.NewFromInt(100), decimal.NewFromInt(3),
		decimal.NewFromInt(100), decimal.NewFromInt(1),
	)
	assert.True(t, avg.Equal(decimal.NewFromInt(2)), "got %s", avg)

	avg = costing.WeightedAverage(
		decimal.Zero, decimal.NewFromInt(3),
		decimal.NewFromInt(50), decimal.NewFromFloat(1.5),
	)
	assert.True(t, avg.Equal(decimal.NewFromFloat(1.5)), "lote vacío conserva precio entrante, got %s", avg)
}

// TestMargin_Derivacion casos del estado derivado únicamente del signo del margen.
func TestMargin_Derivacion(t *testing.T) {
	amount, percent, status := costing.Margin(decimal.NewFromInt(10), decimal.NewFromInt(6))
	assert.True(t, amount.Equal(decimal.NewFromInt(4)))
	assert.True(t, percent.Equal(decimal.NewFromInt(40)), "got %s", percent)
	assert.Equal(t, costing.StatusProfitable, status)

	amount, _, status = costing.Margin(decimal.NewFromInt(5), decimal.NewFromInt(5))
	assert.True(t, amount.IsZero())
	assert.Equal(t, costing.StatusBreakingEven, status)

	amount, _, status = costing.Margin(decimal.NewFromInt(5), decimal.NewFromInt(7))
	assert.True(t, amount.Equal(decimal.NewFromInt(-2)))
	assert.Equal(t, costing.StatusLosingMoney, status)
}

// TestUsableQuantity redondeo a 2 decimales de la cantidad utilizable.
func TestUsableQuantity(t *testing.T) {
	got := costing.UsableQuantity(decimal.NewFromInt(1000), decimal.NewFromFloat(12.5))
	assert.True(t, got.Equal(decimal.NewFromInt(875)), "got %s", got)
}
