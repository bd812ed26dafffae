package stock

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
)

// DeductionLine requerimiento de un insumo para una venta, ya escalado por la
// cantidad vendida y normalizado a la unidad base del insumo.
type DeductionLine struct {
	IngredientID string
	Quantity     decimal.Decimal // en unidad base
	Optional     bool            // línea opcional: sin stock suficiente se omite, no bloquea
}

// Deduct es el motor de asignación y deducción de stock. Debe ejecutarse con
// repositorios atados a una transacción abierta (el caller controla Commit/Rollback).
//
// Algoritmo:
//  1. bloquea los lotes de cada insumo (FOR UPDATE) en orden fijo por
//     ingredient_id y fecha de compra, para que dos ventas concurrentes sobre
//     insumos solapados no generen esperas cíclicas;
//  2. verifica suficiencia agregada de TODOS los insumos antes de tocar
//     cualquier lote (una receta nunca queda medio cumplida);
//  3. solo entonces descuenta lote a lote, el comprado más antiguo primero,
//     min(restante del lote, faltante) por lote;
//  4. si una resta llevara el restante bajo cero aborta con ErrNegativeStock
//     (el rollback de la tx revierte lo ya descontado).
//
// Devuelve las filas de consumo por lote para que el caller las persista junto
// con la venta, en la misma transacción.
func Deduct(
	batchRepo repository.StockBatchRepository,
	ingredientRepo repository.IngredientRepository,
	lines []DeductionLine,
	saleID string,
	now time.Time,
) ([]*entity.SaleConsumption, error) {
	merged := mergeLines(lines)

	type locked struct {
		line    DeductionLine
		batches []*entity.StockBatch
	}
	plan := make([]locked, 0, len(merged))

	// Fase 1: bloquear en orden fijo y verificar suficiencia agregada.
	for _, line := range merged {
		if !line.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		batches, err := batchRepo.ListForUpdate(line.IngredientID)
		if err != nil {
			return nil, err
		}
		available := decimal.Zero
		for _, b := range batches {
			available = available.Add(b.RemainingQuantity)
		}
		if available.LessThan(line.Quantity) {
			if line.Optional {
				continue // línea opcional sin stock: se omite de la venta
			}
			ing, err := ingredientRepo.GetByID(line.IngredientID)
			if err != nil {
				return nil, err
			}
			insErr := &domain.InsufficientStockError{
				IngredientID: line.IngredientID,
				Available:    available,
				Required:     line.Quantity,
			}
			if ing != nil {
				insErr.IngredientName = ing.Name
				insErr.Unit = string(ing.BaseUnit())
			}
			return nil, insErr
		}
		plan = append(plan, locked{line: line, batches: batches})
	}

	// Fase 2: deducción lote a lote, el más antiguo primero.
	consumptions := make([]*entity.SaleConsumption, 0, len(plan))
	for _, p := range plan {
		needed := p.line.Quantity
		for _, b := range p.batches {
			if !needed.GreaterThan(decimal.Zero) {
				break
			}
			if !b.HasRemaining() {
				continue
			}
			take := decimal.Min(b.RemainingQuantity, needed)
			newRemaining := b.RemainingQuantity.Sub(take)
			if newRemaining.IsNegative() {
				return nil, domain.ErrNegativeStock
			}
			b.RemainingQuantity = newRemaining
			b.UpdatedAt = now
			if err := batchRepo.Update(b); err != nil {
				return nil, err
			}
			consumptions = append(consumptions, &entity.SaleConsumption{
				ID:           uuid.New().String(),
				SaleID:       saleID,
				StockBatchID: b.ID,
				IngredientID: p.line.IngredientID,
				Quantity:     take,
				CreatedAt:    now,
			})
			needed = needed.Sub(take)
		}
		// La fase 1 ya garantizó suficiencia; quedar con faltante aquí solo
		// puede venir de una carrera o de redondeo, y es fatal.
		if needed.GreaterThan(decimal.Zero) {
			return nil, domain.ErrNegativeStock
		}
	}
	return consumptions, nil
}

// mergeLines agrupa líneas duplicadas del mismo insumo (sumando cantidades,
// opcional solo si todas lo son) y las ordena por ingredient_id: el orden de
// adquisición de bloqueos debe ser estable entre ventas concurrentes.
func mergeLines(lines []DeductionLine) []DeductionLine {
	byID := make(map[string]DeductionLine)
	for _, l := range lines {
		acc, ok := byID[l.IngredientID]
		if !ok {
			byID[l.IngredientID] = l
			continue
		}
		acc.Quantity = acc.Quantity.Add(l.Quantity)
		acc.Optional = acc.Optional && l.Optional
		byID[l.IngredientID] = acc
	}
	merged := make([]DeductionLine, 0, len(byID))
	for _, l := range byID {
		merged = append(merged, l)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].IngredientID < merged[j].IngredientID })
	return merged
}
