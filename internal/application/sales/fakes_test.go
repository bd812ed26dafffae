package sales_test

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/application/stock"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
	"github.com/jhoicas/insumos-api/internal/domain/unit"
)

// Fakes en memoria para probar ventas contra el motor de deducción sin
// PostgreSQL. El runner no simula rollback: los tests verifican que nada se
// muta si alguna validación falla.

type fakeBatchRepo struct {
	batches []*entity.StockBatch
}

func (r *fakeBatchRepo) Create(b *entity.StockBatch) error {
	r.batches = append(r.batches, b)
	return nil
}

func (r *fakeBatchRepo) GetByID(id string) (*entity.StockBatch, error) {
	for _, b := range r.batches {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, nil
}

func (r *fakeBatchRepo) GetForUpdate(id string) (*entity.StockBatch, error) {
	return r.GetByID(id)
}

func (r *fakeBatchRepo) ListByIngredient(ingredientID string) ([]*entity.StockBatch, error) {
	var out []*entity.StockBatch
	for _, b := range r.batches {
		if b.IngredientID == ingredientID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PurchasedAt.Before(out[j].PurchasedAt) })
	return out, nil
}

func (r *fakeBatchRepo) ListForUpdate(ingredientID string) ([]*entity.StockBatch, error) {
	return r.ListByIngredient(ingredientID)
}

func (r *fakeBatchRepo) LatestOpenForUpdate(ingredientID string) (*entity.StockBatch, error) {
	batches, _ := r.ListByIngredient(ingredientID)
	for i := len(batches) - 1; i >= 0; i-- {
		if batches[i].HasRemaining() {
			return batches[i], nil
		}
	}
	return nil, nil
}

func (r *fakeBatchRepo) Update(b *entity.StockBatch) error {
	for i, existing := range r.batches {
		if existing.ID == b.ID {
			r.batches[i] = b
			return nil
		}
	}
	return nil
}

func (r *fakeBatchRepo) TotalRemaining(ingredientID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, b := range r.batches {
		if b.IngredientID == ingredientID {
			total = total.Add(b.RemainingQuantity)
		}
	}
	return total, nil
}

type fakeIngredientRepo struct {
	ingredients map[string]*entity.Ingredient
}

func newFakeIngredientRepo() *fakeIngredientRepo {
	return &fakeIngredientRepo{ingredients: make(map[string]*entity.Ingredient)}
}

func (r *fakeIngredientRepo) Create(i *entity.Ingredient) error {
	r.ingredients[i.ID] = i
	return nil
}

func (r *fakeIngredientRepo) GetByID(id string) (*entity.Ingredient, error) {
	return r.ingredients[id], nil
}

func (r *fakeIngredientRepo) ListByUser(userID string, limit, offset int) ([]*entity.Ingredient, error) {
	var out []*entity.Ingredient
	for _, i := range r.ingredients {
		if i.UserID == userID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (r *fakeIngredientRepo) Update(i *entity.Ingredient) error {
	r.ingredients[i.ID] = i
	return nil
}

func (r *fakeIngredientRepo) UpdateCosts(i *entity.Ingredient) error {
	r.ingredients[i.ID] = i
	return nil
}

func (r *fakeIngredientRepo) Delete(id string) error {
	delete(r.ingredients, id)
	return nil
}

type fakeWasteRepo struct{}

func (r *fakeWasteRepo) Create(rec *entity.WasteRecord) error { return nil }

func (r *fakeWasteRepo) ListByBatch(batchID string) ([]*entity.WasteRecord, error) {
	return nil, nil
}

func (r *fakeWasteRepo) ListByUser(userID string, limit, offset int) ([]*entity.WasteRecord, error) {
	return nil, nil
}

type fakeSaleRepo struct {
	sales        map[string]*entity.Sale
	consumptions []*entity.SaleConsumption
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: make(map[string]*entity.Sale)}
}

func (r *fakeSaleRepo) Create(s *entity.Sale) error {
	r.sales[s.ID] = s
	return nil
}

func (r *fakeSaleRepo) GetByID(id string) (*entity.Sale, error) {
	return r.sales[id], nil
}

func (r *fakeSaleRepo) ListByUser(userID string, limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, s := range r.sales {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSaleRepo) Delete(id string) error {
	delete(r.sales, id)
	return nil
}

func (r *fakeSaleRepo) CreateConsumptions(cs []*entity.SaleConsumption) error {
	r.consumptions = append(r.consumptions, cs...)
	return nil
}

func (r *fakeSaleRepo) ListConsumptions(saleID string) ([]*entity.SaleConsumption, error) {
	var out []*entity.SaleConsumption
	for _, c := range r.consumptions {
		if c.SaleID == saleID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeSaleRepo) DeleteConsumptions(saleID string) error {
	var kept []*entity.SaleConsumption
	for _, c := range r.consumptions {
		if c.SaleID != saleID {
			kept = append(kept, c)
		}
	}
	r.consumptions = kept
	return nil
}

type fakeProductRepo struct {
	products map[string]*entity.Product
	recipes  map[string][]*entity.RecipeLine
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		products: make(map[string]*entity.Product),
		recipes:  make(map[string][]*entity.RecipeLine),
	}
}

func (r *fakeProductRepo) Create(p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.products[id], nil
}

func (r *fakeProductRepo) ListByUser(userID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) Delete(id string) error {
	delete(r.products, id)
	delete(r.recipes, id)
	return nil
}

func (r *fakeProductRepo) ReplaceRecipe(productID string, lines []*entity.RecipeLine) error {
	r.recipes[productID] = lines
	return nil
}

func (r *fakeProductRepo) ListRecipe(productID string) ([]*entity.RecipeLine, error) {
	return r.recipes[productID], nil
}

func (r *fakeProductRepo) ListByIngredient(ingredientID string) ([]*entity.Product, error) {
	var out []*entity.Product
	for pid, lines := range r.recipes {
		for _, l := range lines {
			if l.IngredientID == ingredientID {
				if p, ok := r.products[pid]; ok {
					out = append(out, p)
				}
				break
			}
		}
	}
	return out, nil
}

func (r *fakeProductRepo) IngredientInUse(ingredientID string) (bool, error) {
	for _, lines := range r.recipes {
		for _, l := range lines {
			if l.IngredientID == ingredientID {
				return true, nil
			}
		}
	}
	return false, nil
}

type fakeTxRunner struct {
	batchRepo      *fakeBatchRepo
	ingredientRepo *fakeIngredientRepo
	wasteRepo      *fakeWasteRepo
	saleRepo       *fakeSaleRepo
	productRepo    *fakeProductRepo
}

var _ stock.TxRunner = (*fakeTxRunner)(nil)

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	repository.StockBatchRepository,
	repository.IngredientRepository,
	repository.WasteRecordRepository,
	repository.SaleRepository,
	repository.ProductRepository,
) error) error {
	return fn(r.batchRepo, r.ingredientRepo, r.wasteRepo, r.saleRepo, r.productRepo)
}

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func seedIngredient(repo *fakeIngredientRepo, id, name string, u unit.Unit) *entity.Ingredient {
	ing := &entity.Ingredient{ID: id, UserID: "user-1", Name: name, Unit: u}
	repo.ingredients[id] = ing
	return ing
}

func seedBatch(repo *fakeBatchRepo, id, ingredientID string, remaining float64, u unit.Unit, age time.Duration) *entity.StockBatch {
	b := &entity.StockBatch{
		ID:                id,
		IngredientID:      ingredientID,
		PurchasedQuantity: dec(remaining),
		Unit:              u,
		RemainingQuantity: dec(remaining),
		PurchasedAt:       time.Now().Add(-age),
	}
	repo.batches = append(repo.batches, b)
	return b
}
