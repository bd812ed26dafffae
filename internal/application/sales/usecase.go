// Package sales registra ventas contra el motor de deducción de stock: la
// venta se persiste únicamente si la deducción completa de su receta tuvo
// éxito, todo dentro de una misma transacción.
package sales

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/application/dto"
	"github.com/jhoicas/insumos-api/internal/application/stock"
	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
	"github.com/jhoicas/insumos-api/internal/domain/unit"
)

// UseCase casos de uso de ventas.
type UseCase struct {
	txRunner    stock.TxRunner
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner stock.TxRunner, productRepo repository.ProductRepository, saleRepo repository.SaleRepository) *UseCase {
	return &UseCase{txRunner: txRunner, productRepo: productRepo, saleRepo: saleRepo}
}

// RecordSale registra una venta. Con ProductID: lee la receta, escala cada
// línea por la cantidad vendida, ejecuta la deducción atómica (todo o nada) y
// persiste venta + bitácora de consumo en la misma transacción. Sin ProductID
// (producto no reconocido, solo nombre): persiste la venta sin tocar stock.
func (uc *UseCase) RecordSale(ctx context.Context, userID string, in dto.RecordSaleRequest) (*entity.Sale, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) || in.TotalAmount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	sale := &entity.Sale{
		ID:          uuid.New().String(),
		UserID:      userID,
		Quantity:    in.Quantity,
		TotalAmount: in.TotalAmount,
		SoldAt:      now,
		CreatedAt:   now,
	}

	if in.ProductID == "" {
		if strings.TrimSpace(in.ProductName) == "" {
			return nil, domain.ErrInvalidInput
		}
		sale.ProductName = in.ProductName
		if err := uc.saleRepo.Create(sale); err != nil {
			return nil, err
		}
		return sale, nil
	}

	p, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if p.UserID != userID {
		return nil, domain.ErrForbidden
	}
	sale.ProductID = &p.ID
	sale.ProductName = p.Name

	recipe, err := uc.productRepo.ListRecipe(p.ID)
	if err != nil {
		return nil, err
	}
	lines := make([]stock.DeductionLine, 0, len(recipe))
	for _, l := range recipe {
		lines = append(lines, stock.DeductionLine{
			IngredientID: l.IngredientID,
			Quantity:     unit.ToBase(l.Quantity, l.Unit).Mul(in.Quantity).Round(unit.QuantityPrecision),
			Optional:     l.IsOptional,
		})
	}

	err = uc.txRunner.Run(ctx, func(
		batchRepo repository.StockBatchRepository,
		ingredientRepo repository.IngredientRepository,
		_ repository.WasteRecordRepository,
		saleRepo repository.SaleRepository,
		_ repository.ProductRepository,
	) error {
		consumptions, err := stock.Deduct(batchRepo, ingredientRepo, lines, sale.ID, now)
		if err != nil {
			return err
		}
		// La venta se escribe solo después de que toda la deducción pasó.
		if err := saleRepo.Create(sale); err != nil {
			return err
		}
		return saleRepo.CreateConsumptions(consumptions)
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// GetByID obtiene una venta del usuario.
func (uc *UseCase) GetByID(ctx context.Context, userID, id string) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return sale, nil
}

// List ventas del usuario.
func (uc *UseCase) List(ctx context.Context, userID string, limit, offset int) ([]*entity.Sale, error) {
	return uc.saleRepo.ListByUser(userID, limit, offset)
}

// DeleteSale borra una venta revirtiendo su deducción original: cada fila de
// la bitácora de consumo se reacredita al lote del que salió, con la fila del
// lote bloqueada, y la venta con su bitácora desaparecen en la misma
// transacción. Una venta sin bitácora (producto no reconocido) solo se borra.
func (uc *UseCase) DeleteSale(ctx context.Context, userID, id string) error {
	if _, err := uc.GetByID(ctx, userID, id); err != nil {
		return err
	}
	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		batchRepo repository.StockBatchRepository,
		_ repository.IngredientRepository,
		_ repository.WasteRecordRepository,
		saleRepo repository.SaleRepository,
		_ repository.ProductRepository,
	) error {
		consumptions, err := saleRepo.ListConsumptions(id)
		if err != nil {
			return err
		}
		for _, c := range consumptions {
			batch, err := batchRepo.GetForUpdate(c.StockBatchID)
			if err != nil {
				return err
			}
			if batch == nil {
				// El lote solo desaparece con su insumo; sin lote no hay a
				// dónde reacreditar y la reversión quedaría coja.
				return domain.ErrConflict
			}
			batch.RemainingQuantity = batch.RemainingQuantity.Add(c.Quantity)
			batch.UpdatedAt = now
			if err := batchRepo.Update(batch); err != nil {
				return err
			}
		}
		if err := saleRepo.DeleteConsumptions(id); err != nil {
			return err
		}
		return saleRepo.Delete(id)
	})
}
