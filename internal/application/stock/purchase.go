package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/costing"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
	"github.com/jhoicas/insumos-api/internal/domain/unit"
)

// PurchaseUseCase registra compras de insumos contra el libro de lotes:
// crea un lote nuevo o fusiona la compra en el lote abierto más reciente con
// precio promedio ponderado, y recalcula el costo real del insumo.
type PurchaseUseCase struct {
	txRunner       TxRunner
	ingredientRepo repository.IngredientRepository
	recoster       ProductRecoster
}

// NewPurchaseUseCase construye el caso de uso. recoster puede ser nil (sin recosteo de productos).
func NewPurchaseUseCase(txRunner TxRunner, ingredientRepo repository.IngredientRepository, recoster ProductRecoster) *PurchaseUseCase {
	return &PurchaseUseCase{txRunner: txRunner, ingredientRepo: ingredientRepo, recoster: recoster}
}

// PurchaseInput entrada para registrar una compra.
type PurchaseInput struct {
	UserID       string
	IngredientID string
	Quantity     decimal.Decimal
	Unit         string // se parsea al enum; debe ser de la familia del insumo
	TotalPrice   decimal.Decimal
}

// RegisterPurchase valida la compra, calcula el costo real por unidad base
// (ajustado por la merma declarada del insumo) y dentro de una transacción:
// fusiona en el lote abierto más reciente (promedio ponderado) o crea lote
// nuevo, siempre normalizando cantidades a la unidad base al escribir, y
// recostea los productos que usan el insumo. Lote, costo del insumo y
// márgenes de productos se confirman o revierten juntos.
func (uc *PurchaseUseCase) RegisterPurchase(ctx context.Context, in PurchaseInput) (*entity.StockBatch, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) || !in.TotalPrice.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	ing, err := uc.ingredientRepo.GetByID(in.IngredientID)
	if err != nil {
		return nil, err
	}
	if ing == nil {
		return nil, domain.ErrNotFound
	}
	if ing.UserID != in.UserID {
		return nil, domain.ErrForbidden
	}
	u, err := unit.Parse(in.Unit)
	if err != nil {
		return nil, err
	}
	if unit.FamilyOf(u) != unit.FamilyOf(ing.Unit) {
		return nil, domain.ErrIncompatibleUnits
	}

	trueCost, err := costing.TrueUnitCost(in.TotalPrice, ing.WastePercent, in.Quantity, u)
	if err != nil {
		return nil, err
	}
	baseQty := unit.ToBase(in.Quantity, u)
	usable := costing.UsableQuantity(baseQty, ing.WastePercent)
	now := time.Now()

	var result *entity.StockBatch
	err = uc.txRunner.Run(ctx, func(
		batchRepo repository.StockBatchRepository,
		ingredientRepo repository.IngredientRepository,
		_ repository.WasteRecordRepository,
		_ repository.SaleRepository,
		productRepo repository.ProductRepository,
	) error {
		// Lote abierto más reciente, bloqueado: la fusión es un read-modify-write.
		latest, err := batchRepo.LatestOpenForUpdate(in.IngredientID)
		if err != nil {
			return err
		}
		if latest != nil {
			latest.PricePerBaseUnit = costing.WeightedAverage(
				latest.RemainingQuantity, latest.PricePerBaseUnit, usable, trueCost,
			)
			latest.PurchasedQuantity = latest.PurchasedQuantity.Add(baseQty)
			latest.RemainingQuantity = latest.RemainingQuantity.Add(usable)
			latest.TotalPurchasedPrice = latest.TotalPurchasedPrice.Add(in.TotalPrice)
			latest.UpdatedAt = now
			if err := batchRepo.Update(latest); err != nil {
				return err
			}
			result = latest
		} else {
			result = &entity.StockBatch{
				ID:                  uuid.New().String(),
				IngredientID:        in.IngredientID,
				PurchasedQuantity:   baseQty,
				Unit:                ing.BaseUnit(),
				TotalPurchasedPrice: in.TotalPrice,
				PricePerBaseUnit:    trueCost,
				WastePercent:        ing.WastePercent,
				RemainingQuantity:   usable,
				WastedQuantity:      decimal.Zero,
				PurchasedAt:         now,
				CreatedAt:           now,
				UpdatedAt:           now,
			}
			if err := batchRepo.Create(result); err != nil {
				return err
			}
		}
		if err := refreshIngredientCost(batchRepo, ingredientRepo, ing, trueCost, now); err != nil {
			return err
		}
		if uc.recoster != nil {
			if err := uc.recoster.RecostByIngredient(productRepo, ingredientRepo, in.IngredientID); err != nil {
				return fmt.Errorf("recostear productos del insumo %s: %w", in.IngredientID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// refreshIngredientCost deriva el costo real del insumo como promedio
// ponderado del stock restante de todos sus lotes; si no queda stock, usa el
// costo fallback. Pobla exactamente un campo CostPer* por familia.
func refreshIngredientCost(
	batchRepo repository.StockBatchRepository,
	ingredientRepo repository.IngredientRepository,
	ing *entity.Ingredient,
	fallback decimal.Decimal,
	now time.Time,
) error {
	batches, err := batchRepo.ListByIngredient(ing.ID)
	if err != nil {
		return err
	}
	totalQty := decimal.Zero
	totalValue := decimal.Zero
	for _, b := range batches {
		if !b.HasRemaining() {
			continue
		}
		totalQty = totalQty.Add(b.RemainingQuantity)
		totalValue = totalValue.Add(b.RemainingQuantity.Mul(b.PricePerBaseUnit))
	}
	cost := fallback
	if totalQty.GreaterThan(decimal.Zero) {
		cost = totalValue.Div(totalQty).Round(unit.CostPrecision)
	}
	ing.SetTrueCostPerBase(cost)
	ing.UpdatedAt = now
	return ingredientRepo.UpdateCosts(ing)
}
