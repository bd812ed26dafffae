package stock

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
)

// LedgerUseCase lecturas del libro de lotes: listado por insumo, totales
// restantes, valorización del stock y faltantes. No muta estado.
type LedgerUseCase struct {
	batchRepo      repository.StockBatchRepository
	ingredientRepo repository.IngredientRepository
	wasteRepo      repository.WasteRecordRepository
}

// NewLedgerUseCase construye el caso de uso de lecturas del libro.
func NewLedgerUseCase(
	batchRepo repository.StockBatchRepository,
	ingredientRepo repository.IngredientRepository,
	wasteRepo repository.WasteRecordRepository,
) *LedgerUseCase {
	return &LedgerUseCase{batchRepo: batchRepo, ingredientRepo: ingredientRepo, wasteRepo: wasteRepo}
}

// ListBatches lotes de un insumo del usuario, del más antiguo al más reciente.
func (uc *LedgerUseCase) ListBatches(ctx context.Context, userID, ingredientID string) ([]*entity.StockBatch, error) {
	if _, err := uc.ownedIngredient(userID, ingredientID); err != nil {
		return nil, err
	}
	return uc.batchRepo.ListByIngredient(ingredientID)
}

// TotalRemaining total restante de un insumo en su unidad base.
func (uc *LedgerUseCase) TotalRemaining(ctx context.Context, userID, ingredientID string) (decimal.Decimal, error) {
	if _, err := uc.ownedIngredient(userID, ingredientID); err != nil {
		return decimal.Zero, err
	}
	return uc.batchRepo.TotalRemaining(ingredientID)
}

// ValuationItem valorización de un insumo: restante por costo real vigente.
type ValuationItem struct {
	IngredientID   string
	IngredientName string
	Unit           string
	Remaining      decimal.Decimal
	CostPerBase    *decimal.Decimal
	Value          decimal.Decimal
}

const valuationPageSize = 200

// Valuation valor del stock restante de todos los insumos del usuario.
// Recorre el listado por páginas: la valorización cubre el inventario
// completo sin importar cuántos insumos tenga el usuario.
func (uc *LedgerUseCase) Valuation(ctx context.Context, userID string) ([]ValuationItem, error) {
	var items []ValuationItem
	for offset := 0; ; offset += valuationPageSize {
		ingredients, err := uc.ingredientRepo.ListByUser(userID, valuationPageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, ing := range ingredients {
			remaining, err := uc.batchRepo.TotalRemaining(ing.ID)
			if err != nil {
				return nil, err
			}
			item := ValuationItem{
				IngredientID:   ing.ID,
				IngredientName: ing.Name,
				Unit:           string(ing.BaseUnit()),
				Remaining:      remaining,
				CostPerBase:    ing.TrueCostPerBase(),
				Value:          decimal.Zero,
			}
			if item.CostPerBase != nil {
				item.Value = remaining.Mul(*item.CostPerBase).Round(2)
			}
			items = append(items, item)
		}
		if len(ingredients) < valuationPageSize {
			break
		}
	}
	if items == nil {
		items = []ValuationItem{}
	}
	return items, nil
}

// LowStock insumos cuyo restante total está por debajo del umbral dado
// (umbral en unidad base del insumo).
func (uc *LedgerUseCase) LowStock(ctx context.Context, userID string, threshold decimal.Decimal) ([]ValuationItem, error) {
	items, err := uc.Valuation(ctx, userID)
	if err != nil {
		return nil, err
	}
	low := make([]ValuationItem, 0)
	for _, it := range items {
		if it.Remaining.LessThan(threshold) {
			low = append(low, it)
		}
	}
	return low, nil
}

// ListWasteByBatch registros de merma de un lote del usuario.
func (uc *LedgerUseCase) ListWasteByBatch(ctx context.Context, userID, batchID string) ([]*entity.WasteRecord, error) {
	batch, err := uc.batchRepo.GetByID(batchID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, domain.ErrNotFound
	}
	if _, err := uc.ownedIngredient(userID, batch.IngredientID); err != nil {
		return nil, err
	}
	return uc.wasteRepo.ListByBatch(batchID)
}

// ListWaste registros de merma de todos los lotes del usuario, los más
// recientes primero, con paginación.
func (uc *LedgerUseCase) ListWaste(ctx context.Context, userID string, limit, offset int) ([]*entity.WasteRecord, error) {
	return uc.wasteRepo.ListByUser(userID, limit, offset)
}

func (uc *LedgerUseCase) ownedIngredient(userID, ingredientID string) (*entity.Ingredient, error) {
	ing, err := uc.ingredientRepo.GetByID(ingredientID)
	if err != nil {
		return nil, err
	}
	if ing == nil {
		return nil, domain.ErrNotFound
	}
	if ing.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return ing, nil
}
