package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/domain/unit"
)

// Ingredient representa un insumo (materia prima) de un usuario.
// Exactamente uno de los campos CostPer* está poblado según la familia de la
// unidad canónica; los otros quedan en nil ("no aplica" no es lo mismo que 0).
// Los campos de costo se recalculan en cada compra o cambio de merma/unidad.
type Ingredient struct {
	ID           string
	UserID       string
	Name         string
	Unit         unit.Unit       // unidad canónica declarada al registrar
	WastePercent decimal.Decimal // merma declarada, 0..100
	CostPerML    *decimal.Decimal
	CostPerGram  *decimal.Decimal
	CostPerUnit  *decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BaseUnit unidad base de la familia del insumo (ml, g o unidad).
func (i *Ingredient) BaseUnit() unit.Unit {
	return unit.BaseOf(unit.FamilyOf(i.Unit))
}

// TrueCostPerBase devuelve el costo real por unidad base según la familia,
// o nil si el insumo nunca ha tenido compras.
func (i *Ingredient) TrueCostPerBase() *decimal.Decimal {
	switch unit.FamilyOf(i.Unit) {
	case unit.FamilyVolume:
		return i.CostPerML
	case unit.FamilyWeight:
		return i.CostPerGram
	default:
		return i.CostPerUnit
	}
}

// SetTrueCostPerBase pobla el campo de costo de la familia del insumo y
// limpia los demás.
func (i *Ingredient) SetTrueCostPerBase(cost decimal.Decimal) {
	i.CostPerML, i.CostPerGram, i.CostPerUnit = nil, nil, nil
	switch unit.FamilyOf(i.Unit) {
	case unit.FamilyVolume:
		i.CostPerML = &cost
	case unit.FamilyWeight:
		i.CostPerGram = &cost
	default:
		i.CostPerUnit = &cost
	}
}
