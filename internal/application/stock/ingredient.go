package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/application/dto"
	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
	"github.com/jhoicas/insumos-api/internal/domain/unit"
)

var hundred = decimal.NewFromInt(100)

// IngredientUseCase CRUD de insumos. Los campos de costo derivado los pobla
// la primera compra; cambiar merma o unidad dispara refresco de costo y
// recosteo de los productos que usan el insumo.
type IngredientUseCase struct {
	txRunner       TxRunner
	ingredientRepo repository.IngredientRepository
	batchRepo      repository.StockBatchRepository
	productRepo    repository.ProductRepository
	recoster       ProductRecoster
}

// NewIngredientUseCase construye el caso de uso. recoster puede ser nil.
func NewIngredientUseCase(
	txRunner TxRunner,
	ingredientRepo repository.IngredientRepository,
	batchRepo repository.StockBatchRepository,
	productRepo repository.ProductRepository,
	recoster ProductRecoster,
) *IngredientUseCase {
	return &IngredientUseCase{
		txRunner:       txRunner,
		ingredientRepo: ingredientRepo,
		batchRepo:      batchRepo,
		productRepo:    productRepo,
		recoster:       recoster,
	}
}

// Create registra un insumo. Los costos derivados inician en nil (sin compras).
func (uc *IngredientUseCase) Create(ctx context.Context, userID string, in dto.CreateIngredientRequest) (*entity.Ingredient, error) {
	u, err := unit.Parse(in.Unit)
	if err != nil {
		return nil, err
	}
	if in.WastePercent.LessThan(decimal.Zero) || in.WastePercent.GreaterThan(hundred) {
		return nil, domain.ErrInvalidWastePercent
	}
	now := time.Now()
	ing := &entity.Ingredient{
		ID:           uuid.New().String(),
		UserID:       userID,
		Name:         in.Name,
		Unit:         u,
		WastePercent: in.WastePercent,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.ingredientRepo.Create(ing); err != nil {
		return nil, err
	}
	return ing, nil
}

// GetByID obtiene un insumo del usuario.
func (uc *IngredientUseCase) GetByID(ctx context.Context, userID, id string) (*entity.Ingredient, error) {
	ing, err := uc.ingredientRepo.GetByID(id)
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

// List insumos del usuario.
func (uc *IngredientUseCase) List(ctx context.Context, userID string, limit, offset int) ([]*entity.Ingredient, error) {
	return uc.ingredientRepo.ListByUser(userID, limit, offset)
}

// Update actualiza nombre, merma o unidad. Cambiar la unidad a otra familia
// con lotes existentes es un conflicto: los lotes están normalizados a la
// unidad base original. Cambios de merma o unidad refrescan el costo derivado
// y recostean los productos afectados.
func (uc *IngredientUseCase) Update(ctx context.Context, userID, id string, in dto.UpdateIngredientRequest) (*entity.Ingredient, error) {
	ing, err := uc.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	costAffected := false
	if in.Name != nil {
		ing.Name = *in.Name
	}
	if in.Unit != nil {
		u, err := unit.Parse(*in.Unit)
		if err != nil {
			return nil, err
		}
		if unit.FamilyOf(u) != unit.FamilyOf(ing.Unit) {
			batches, err := uc.batchRepo.ListByIngredient(id)
			if err != nil {
				return nil, err
			}
			if len(batches) > 0 {
				return nil, domain.ErrConflict
			}
		}
		if u != ing.Unit {
			ing.Unit = u
			costAffected = true
		}
	}
	if in.WastePercent != nil {
		if in.WastePercent.LessThan(decimal.Zero) || in.WastePercent.GreaterThan(hundred) {
			return nil, domain.ErrInvalidWastePercent
		}
		if !in.WastePercent.Equal(ing.WastePercent) {
			ing.WastePercent = *in.WastePercent
			costAffected = true
		}
	}
	ing.UpdatedAt = time.Now()
	// Refresco de costo, actualización y recosteo de productos en una sola
	// unidad de trabajo: un insumo nunca queda con merma nueva y márgenes viejos.
	err = uc.txRunner.Run(ctx, func(
		batchRepo repository.StockBatchRepository,
		ingredientRepo repository.IngredientRepository,
		_ repository.WasteRecordRepository,
		_ repository.SaleRepository,
		productRepo repository.ProductRepository,
	) error {
		if costAffected && ing.TrueCostPerBase() != nil {
			// Refrescar desde los lotes abiertos; el campo poblado sigue a la familia actual.
			fallback := *ing.TrueCostPerBase()
			if err := refreshIngredientCost(batchRepo, ingredientRepo, ing, fallback, ing.UpdatedAt); err != nil {
				return err
			}
		}
		if err := ingredientRepo.Update(ing); err != nil {
			return err
		}
		if costAffected && uc.recoster != nil {
			return uc.recoster.RecostByIngredient(productRepo, ingredientRepo, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ing, nil
}

// Delete elimina el insumo con sus lotes y mermas. Se rechaza si alguna receta
// lo referencia (ErrConflict): primero hay que quitarlo de los productos.
func (uc *IngredientUseCase) Delete(ctx context.Context, userID, id string) error {
	if _, err := uc.GetByID(ctx, userID, id); err != nil {
		return err
	}
	inUse, err := uc.productRepo.IngredientInUse(id)
	if err != nil {
		return err
	}
	if inUse {
		return domain.ErrConflict
	}
	return uc.ingredientRepo.Delete(id)
}
