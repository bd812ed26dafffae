package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
	"github.com/jhoicas/insumos-api/internal/domain/unit"
)

// WasteUseCase registra mermas contra un lote específico: mueve cantidad de
// remaining a wasted y deja un registro inmutable, todo en una transacción.
type WasteUseCase struct {
	txRunner       TxRunner
	ingredientRepo repository.IngredientRepository
}

// NewWasteUseCase construye el caso de uso.
func NewWasteUseCase(txRunner TxRunner, ingredientRepo repository.IngredientRepository) *WasteUseCase {
	return &WasteUseCase{txRunner: txRunner, ingredientRepo: ingredientRepo}
}

// WasteInput entrada para registrar una merma.
type WasteInput struct {
	UserID       string
	StockBatchID string
	Quantity     decimal.Decimal
	Unit         string
	Reason       string // 1..255 caracteres
}

// RecordWaste convierte la cantidad a la unidad del lote, verifica que no
// exceda el restante y aplica remaining -= qty, wasted += qty más el registro,
// bloqueando la fila del lote durante toda la operación.
func (uc *WasteUseCase) RecordWaste(ctx context.Context, in WasteInput) (*entity.WasteRecord, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Reason) < 1 || len(in.Reason) > 255 {
		return nil, domain.ErrInvalidInput
	}
	u, err := unit.Parse(in.Unit)
	if err != nil {
		return nil, err
	}
	now := time.Now()

	var record *entity.WasteRecord
	err = uc.txRunner.Run(ctx, func(
		batchRepo repository.StockBatchRepository,
		ingredientRepo repository.IngredientRepository,
		wasteRepo repository.WasteRecordRepository,
		_ repository.SaleRepository,
		_ repository.ProductRepository,
	) error {
		batch, err := batchRepo.GetForUpdate(in.StockBatchID)
		if err != nil {
			return err
		}
		if batch == nil {
			return domain.ErrNotFound
		}
		ing, err := ingredientRepo.GetByID(batch.IngredientID)
		if err != nil {
			return err
		}
		if ing == nil || ing.UserID != in.UserID {
			return domain.ErrForbidden
		}
		qty, err := unit.Convert(in.Quantity, u, batch.Unit)
		if err != nil {
			return err
		}
		if qty.GreaterThan(batch.RemainingQuantity) {
			return &domain.InsufficientStockError{
				IngredientID:   batch.IngredientID,
				IngredientName: ing.Name,
				Available:      batch.RemainingQuantity,
				Required:       qty,
				Unit:           string(batch.Unit),
			}
		}
		batch.RemainingQuantity = batch.RemainingQuantity.Sub(qty)
		batch.WastedQuantity = batch.WastedQuantity.Add(qty)
		batch.UpdatedAt = now
		if err := batchRepo.Update(batch); err != nil {
			return err
		}
		record = &entity.WasteRecord{
			ID:           uuid.New().String(),
			StockBatchID: batch.ID,
			Quantity:     qty,
			Reason:       in.Reason,
			CreatedAt:    now,
		}
		return wasteRepo.Create(record)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}
