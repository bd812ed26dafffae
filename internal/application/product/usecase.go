// Package product implementa el motor de costeo de productos: costo total por
// receta, margen y estado de rentabilidad, siempre derivados al escribir.
package product

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/application/dto"
	"github.com/jhoicas/insumos-api/internal/application/stock"
	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/costing"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
	"github.com/jhoicas/insumos-api/internal/domain/unit"
)

// UseCase casos de uso de productos y su receta. Costo, margen y estado nunca
// se aceptan del caller: se recalculan en cada escritura y tras cada compra
// que cambia el costo real de un insumo.
type UseCase struct {
	txRunner       stock.TxRunner
	productRepo    repository.ProductRepository
	ingredientRepo repository.IngredientRepository
}

var _ stock.ProductRecoster = (*UseCase)(nil)

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner stock.TxRunner, productRepo repository.ProductRepository, ingredientRepo repository.IngredientRepository) *UseCase {
	return &UseCase{txRunner: txRunner, productRepo: productRepo, ingredientRepo: ingredientRepo}
}

// Create crea el producto, costea cada línea de receta y deriva margen/estado.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CreateProductRequest) (*entity.Product, []*entity.RecipeLine, error) {
	if !in.SellPrice.GreaterThan(decimal.Zero) {
		return nil, nil, domain.ErrInvalidInput
	}
	now := time.Now()
	p := &entity.Product{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      in.Name,
		SellPrice: in.SellPrice,
		CreatedAt: now,
		UpdatedAt: now,
	}
	lines, err := uc.buildRecipe(userID, p.ID, in.Recipe)
	if err != nil {
		return nil, nil, err
	}
	uc.derive(p, lines)
	// Producto y receta nacen juntos: sin tx quedaría un producto con costo
	// derivado pero cero líneas si la segunda escritura falla.
	err = uc.txRunner.Run(ctx, func(
		_ repository.StockBatchRepository,
		_ repository.IngredientRepository,
		_ repository.WasteRecordRepository,
		_ repository.SaleRepository,
		productRepo repository.ProductRepository,
	) error {
		if err := productRepo.Create(p); err != nil {
			return err
		}
		return productRepo.ReplaceRecipe(p.ID, lines)
	})
	if err != nil {
		return nil, nil, err
	}
	return p, lines, nil
}

// GetByID obtiene un producto del usuario con su receta.
func (uc *UseCase) GetByID(ctx context.Context, userID, id string) (*entity.Product, []*entity.RecipeLine, error) {
	p, err := uc.owned(userID, id)
	if err != nil {
		return nil, nil, err
	}
	lines, err := uc.productRepo.ListRecipe(id)
	if err != nil {
		return nil, nil, err
	}
	return p, lines, nil
}

// List productos del usuario.
func (uc *UseCase) List(ctx context.Context, userID string, limit, offset int) ([]*entity.Product, error) {
	return uc.productRepo.ListByUser(userID, limit, offset)
}

// Update actualiza nombre, precio o receta completa y recalcula todo lo derivado.
func (uc *UseCase) Update(ctx context.Context, userID, id string, in dto.UpdateProductRequest) (*entity.Product, []*entity.RecipeLine, error) {
	p, err := uc.owned(userID, id)
	if err != nil {
		return nil, nil, err
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.SellPrice != nil {
		if !in.SellPrice.GreaterThan(decimal.Zero) {
			return nil, nil, domain.ErrInvalidInput
		}
		p.SellPrice = *in.SellPrice
	}
	var lines []*entity.RecipeLine
	recipeChanged := in.Recipe != nil
	if recipeChanged {
		lines, err = uc.buildRecipe(userID, p.ID, in.Recipe)
		if err != nil {
			return nil, nil, err
		}
	} else {
		lines, err = uc.productRepo.ListRecipe(p.ID)
		if err != nil {
			return nil, nil, err
		}
	}
	p.UpdatedAt = time.Now()
	uc.derive(p, lines)
	err = uc.txRunner.Run(ctx, func(
		_ repository.StockBatchRepository,
		_ repository.IngredientRepository,
		_ repository.WasteRecordRepository,
		_ repository.SaleRepository,
		productRepo repository.ProductRepository,
	) error {
		if recipeChanged {
			if err := productRepo.ReplaceRecipe(p.ID, lines); err != nil {
				return err
			}
		}
		return productRepo.Update(p)
	})
	if err != nil {
		return nil, nil, err
	}
	return p, lines, nil
}

// Delete elimina el producto y su receta.
func (uc *UseCase) Delete(ctx context.Context, userID, id string) error {
	if _, err := uc.owned(userID, id); err != nil {
		return err
	}
	return uc.productRepo.Delete(id)
}

// RecostByIngredient recalcula líneas, costo y margen de todos los productos
// cuya receta usa el insumo (recompute-on-write). Opera sobre los repositorios
// que recibe: el motor de compras lo invoca con los de su transacción abierta,
// de modo que lote, costo del insumo y márgenes se confirman juntos.
func (uc *UseCase) RecostByIngredient(
	productRepo repository.ProductRepository,
	ingredientRepo repository.IngredientRepository,
	ingredientID string,
) error {
	products, err := productRepo.ListByIngredient(ingredientID)
	if err != nil {
		return err
	}
	now := time.Now()
	for _, p := range products {
		lines, err := productRepo.ListRecipe(p.ID)
		if err != nil {
			return err
		}
		for _, l := range lines {
			ing, err := ingredientRepo.GetByID(l.IngredientID)
			if err != nil {
				return err
			}
			if ing == nil {
				continue
			}
			l.LineCost = lineCost(ing, l.Quantity, l.Unit)
		}
		if err := productRepo.ReplaceRecipe(p.ID, lines); err != nil {
			return err
		}
		p.UpdatedAt = now
		uc.derive(p, lines)
		if err := productRepo.Update(p); err != nil {
			return err
		}
	}
	return nil
}

// SimulatePriceChange aplica un delta de precio hipotético sobre un conjunto de
// productos y devuelve margen/estado resultantes. No muta estado.
func (uc *UseCase) SimulatePriceChange(ctx context.Context, userID string, in dto.PriceSimulationRequest) ([]dto.PriceSimulationItem, error) {
	items := make([]dto.PriceSimulationItem, 0, len(in.ProductIDs))
	for _, id := range in.ProductIDs {
		p, err := uc.owned(userID, id)
		if err != nil {
			return nil, err
		}
		newPrice := p.SellPrice.Add(in.PriceDelta)
		amount, percent, status := costing.Margin(newPrice, p.TotalCost)
		items = append(items, dto.PriceSimulationItem{
			ProductID:        p.ID,
			Name:             p.Name,
			CurrentSellPrice: p.SellPrice,
			NewSellPrice:     newPrice,
			NewMarginAmount:  amount,
			NewMarginPercent: percent,
			NewStatus:        status,
		})
	}
	return items, nil
}

// SimulateIngredientSwap recalcula el costo del producto sustituyendo un
// insumo de la receta por otro (misma cantidad y unidad, convertida a la
// familia del sustituto debe ser compatible), opcionalmente con sobreprecio.
// No muta estado.
func (uc *UseCase) SimulateIngredientSwap(ctx context.Context, userID, productID string, in dto.SwapSimulationRequest) (*dto.SwapSimulationResponse, error) {
	p, err := uc.owned(userID, productID)
	if err != nil {
		return nil, err
	}
	lines, err := uc.productRepo.ListRecipe(productID)
	if err != nil {
		return nil, err
	}
	to, err := uc.ingredientRepo.GetByID(in.ToIngredientID)
	if err != nil {
		return nil, err
	}
	if to == nil || to.UserID != userID {
		return nil, domain.ErrNotFound
	}
	found := false
	newTotal := decimal.Zero
	for _, l := range lines {
		if l.IngredientID != in.FromIngredientID {
			newTotal = newTotal.Add(l.LineCost)
			continue
		}
		found = true
		if unit.FamilyOf(l.Unit) != unit.FamilyOf(to.Unit) {
			return nil, domain.ErrIncompatibleUnits
		}
		newTotal = newTotal.Add(lineCost(to, l.Quantity, l.Unit))
	}
	if !found {
		return nil, domain.ErrNotFound
	}
	newTotal = newTotal.Round(unit.QuantityPrecision)
	newPrice := p.SellPrice
	if in.Upcharge != nil {
		newPrice = newPrice.Add(*in.Upcharge)
	}
	currentMargin, _, _ := costing.Margin(p.SellPrice, p.TotalCost)
	newMargin, _, newStatus := costing.Margin(newPrice, newTotal)
	return &dto.SwapSimulationResponse{
		ProductID:        p.ID,
		CurrentTotalCost: p.TotalCost,
		NewTotalCost:     newTotal,
		CurrentMargin:    currentMargin,
		NewMargin:        newMargin,
		MarginDelta:      newMargin.Sub(currentMargin),
		NewStatus:        newStatus,
	}, nil
}

// buildRecipe valida y costea las líneas: la unidad pedida debe ser de la
// familia del insumo; el costo de línea usa el costo real vigente (cero si el
// insumo aún no tiene compras).
func (uc *UseCase) buildRecipe(userID, productID string, reqs []dto.RecipeLineRequest) ([]*entity.RecipeLine, error) {
	lines := make([]*entity.RecipeLine, 0, len(reqs))
	for _, r := range reqs {
		if !r.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		u, err := unit.Parse(r.Unit)
		if err != nil {
			return nil, err
		}
		ing, err := uc.ingredientRepo.GetByID(r.IngredientID)
		if err != nil {
			return nil, err
		}
		if ing == nil {
			return nil, domain.ErrNotFound
		}
		if ing.UserID != userID {
			return nil, domain.ErrForbidden
		}
		if unit.FamilyOf(u) != unit.FamilyOf(ing.Unit) {
			return nil, domain.ErrIncompatibleUnits
		}
		lines = append(lines, &entity.RecipeLine{
			ID:           uuid.New().String(),
			ProductID:    productID,
			IngredientID: r.IngredientID,
			Quantity:     r.Quantity,
			Unit:         u,
			IsOptional:   r.IsOptional,
			LineCost:     lineCost(ing, r.Quantity, u),
		})
	}
	return lines, nil
}

// derive recalcula TotalCost, MarginAmount, MarginPercent y Status del producto.
func (uc *UseCase) derive(p *entity.Product, lines []*entity.RecipeLine) {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineCost)
	}
	p.TotalCost = total.Round(unit.QuantityPrecision)
	p.MarginAmount, p.MarginPercent, p.Status = costing.Margin(p.SellPrice, p.TotalCost)
}

// lineCost costo cacheado de línea: cantidad en unidad base por costo real por
// unidad base del insumo. Cero si el insumo no tiene compras todavía.
func lineCost(ing *entity.Ingredient, qty decimal.Decimal, u unit.Unit) decimal.Decimal {
	cost := ing.TrueCostPerBase()
	if cost == nil {
		return decimal.Zero
	}
	return unit.ToBase(qty, u).Mul(*cost).Round(unit.CostPrecision)
}

func (uc *UseCase) owned(userID, id string) (*entity.Product, error) {
	p, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if p.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return p, nil
}
