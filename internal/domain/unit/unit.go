// Package unit define las unidades de medida cerradas del sistema y la
// conversión entre ellas (servicio de dominio, sin estado).
package unit

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/domain"
)

// Unit unidad de medida cerrada (enum etiquetado, no texto libre).
type Unit string

const (
	Milliliter Unit = "ml"
	Liter      Unit = "l"
	Gram       Unit = "g"
	Kilogram   Unit = "kg"
	Count      Unit = "unit"
)

// Family familia de unidades: las conversiones solo son válidas dentro de una familia.
type Family string

const (
	FamilyVolume Family = "volume"
	FamilyWeight Family = "weight"
	FamilyCount  Family = "count"
)

// Precisión fija para evitar deriva flotante acumulada entre operaciones repetidas.
const (
	QuantityPrecision int32 = 2
	CostPrecision     int32 = 4
)

// factores hacia la unidad base de cada familia (ml, g, unidad).
var baseFactor = map[Unit]decimal.Decimal{
	Milliliter: decimal.NewFromInt(1),
	Liter:      decimal.NewFromInt(1000),
	Gram:       decimal.NewFromInt(1),
	Kilogram:   decimal.NewFromInt(1000),
	Count:      decimal.NewFromInt(1),
}

// aliases acepta variantes comunes en español e inglés (ya en minúsculas y sin plural).
var aliases = map[string]Unit{
	"ml":         Milliliter,
	"mililitro":  Milliliter,
	"milliliter": Milliliter,
	"l":          Liter,
	"lt":         Liter,
	"litro":      Liter,
	"liter":      Liter,
	"litre":      Liter,
	"g":          Gram,
	"gr":         Gram,
	"gramo":      Gram,
	"gram":       Gram,
	"kg":         Kilogram,
	"kilo":       Kilogram,
	"kilogramo":  Kilogram,
	"kilogram":   Kilogram,
	"unit":       Count,
	"unidad":     Count,
	"und":        Count,
	"u":          Count,
	"pc":         Count,
	"pieza":      Count,
}

// Parse normaliza un texto de unidad al enum: insensible a mayúsculas y al
// plural final ("Litros" -> Liter). Texto no reconocido -> ErrInvalidInput.
func Parse(s string) (Unit, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	if norm == "" {
		return "", domain.ErrInvalidInput
	}
	if u, ok := aliases[norm]; ok {
		return u, nil
	}
	// plural final: "gramos" -> "gramo", "units" -> "unit"
	if strings.HasSuffix(norm, "es") {
		if u, ok := aliases[strings.TrimSuffix(norm, "es")]; ok {
			return u, nil
		}
	}
	if strings.HasSuffix(norm, "s") {
		if u, ok := aliases[strings.TrimSuffix(norm, "s")]; ok {
			return u, nil
		}
	}
	return "", domain.ErrInvalidInput
}

// FamilyOf devuelve la familia de una unidad.
func FamilyOf(u Unit) Family {
	switch u {
	case Milliliter, Liter:
		return FamilyVolume
	case Gram, Kilogram:
		return FamilyWeight
	default:
		return FamilyCount
	}
}

// BaseOf devuelve la unidad base de la familia (ml, g o unidad).
func BaseOf(f Family) Unit {
	switch f {
	case FamilyVolume:
		return Milliliter
	case FamilyWeight:
		return Gram
	default:
		return Count
	}
}

// Convert convierte una cantidad entre dos unidades de la misma familia,
// redondeada a QuantityPrecision. Familias distintas -> ErrIncompatibleUnits.
func Convert(qty decimal.Decimal, from, to Unit) (decimal.Decimal, error) {
	if FamilyOf(from) != FamilyOf(to) {
		return decimal.Zero, domain.ErrIncompatibleUnits
	}
	if from == to {
		return qty.Round(QuantityPrecision), nil
	}
	converted := qty.Mul(baseFactor[from]).Div(baseFactor[to])
	return converted.Round(QuantityPrecision), nil
}

// ToBase convierte una cantidad a la unidad base de su familia.
func ToBase(qty decimal.Decimal, from Unit) decimal.Decimal {
	return qty.Mul(baseFactor[from]).Round(QuantityPrecision)
}
