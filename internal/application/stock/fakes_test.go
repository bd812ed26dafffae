package stock_test

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/application/stock"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
)

// Fakes en memoria para ejercitar los casos de uso sin PostgreSQL.
// El runner simula el rollback restaurando el estado previo de los repos si
// el callback falla (la atomicidad real la da la tx de pgx).

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
	ing, ok := r.ingredients[id]
	if !ok {
		return nil, nil
	}
	// Copia, como el scan de una fila real: mutar lo leído no toca el repo
	// hasta Update/UpdateCosts.
	cp := *ing
	return &cp, nil
}

func (r *fakeIngredientRepo) ListByUser(userID string, limit, offset int) ([]*entity.Ingredient, error) {
	var out []*entity.Ingredient
	for _, i := range r.ingredients {
		if i.UserID == userID {
			out = append(out, i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
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

type fakeWasteRepo struct {
	records []*entity.WasteRecord
}

func (r *fakeWasteRepo) Create(rec *entity.WasteRecord) error {
	r.records = append(r.records, rec)
	return nil
}

func (r *fakeWasteRepo) ListByBatch(batchID string) ([]*entity.WasteRecord, error) {
	var out []*entity.WasteRecord
	for _, rec := range r.records {
		if rec.StockBatchID == batchID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeWasteRepo) ListByUser(userID string, limit, offset int) ([]*entity.WasteRecord, error) {
	if offset >= len(r.records) {
		return nil, nil
	}
	out := r.records[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
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

// fakeTxRunner pasa los fakes directamente al callback. Si el callback falla,
// restaura el estado previo de todos los repos: el equivalente al rollback.
type fakeTxRunner struct {
	batchRepo      *fakeBatchRepo
	ingredientRepo *fakeIngredientRepo
	wasteRepo      *fakeWasteRepo
	saleRepo       *fakeSaleRepo
	productRepo    *fakeProductRepo
}

var _ stock.TxRunner = (*fakeTxRunner)(nil)

type txSnapshot struct {
	batches      []*entity.StockBatch
	ingredients  map[string]*entity.Ingredient
	waste        []*entity.WasteRecord
	sales        map[string]*entity.Sale
	consumptions []*entity.SaleConsumption
	products     map[string]*entity.Product
	recipes      map[string][]*entity.RecipeLine
}

func (r *fakeTxRunner) snapshot() txSnapshot {
	s := txSnapshot{
		ingredients: make(map[string]*entity.Ingredient, len(r.ingredientRepo.ingredients)),
		sales:       make(map[string]*entity.Sale, len(r.saleRepo.sales)),
		products:    make(map[string]*entity.Product, len(r.productRepo.products)),
		recipes:     make(map[string][]*entity.RecipeLine, len(r.productRepo.recipes)),
	}
	for _, b := range r.batchRepo.batches {
		cp := *b
		s.batches = append(s.batches, &cp)
	}
	for id, i := range r.ingredientRepo.ingredients {
		cp := *i
		s.ingredients[id] = &cp
	}
	for _, rec := range r.wasteRepo.records {
		cp := *rec
		s.waste = append(s.waste, &cp)
	}
	for id, sale := range r.saleRepo.sales {
		cp := *sale
		s.sales[id] = &cp
	}
	for _, c := range r.saleRepo.consumptions {
		cp := *c
		s.consumptions = append(s.consumptions, &cp)
	}
	for id, p := range r.productRepo.products {
		cp := *p
		s.products[id] = &cp
	}
	for id, lines := range r.productRepo.recipes {
		cps := make([]*entity.RecipeLine, len(lines))
		for i, l := range lines {
			cp := *l
			cps[i] = &cp
		}
		s.recipes[id] = cps
	}
	return s
}

func (r *fakeTxRunner) restore(s txSnapshot) {
	r.batchRepo.batches = s.batches
	r.ingredientRepo.ingredients = s.ingredients
	r.wasteRepo.records = s.waste
	r.saleRepo.sales = s.sales
	r.saleRepo.consumptions = s.consumptions
	r.productRepo.products = s.products
	r.productRepo.recipes = s.recipes
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	repository.StockBatchRepository,
	repository.IngredientRepository,
	repository.WasteRecordRepository,
	repository.SaleRepository,
	repository.ProductRepository,
) error) error {
	snap := r.snapshot()
	err := fn(r.batchRepo, r.ingredientRepo, r.wasteRepo, r.saleRepo, r.productRepo)
	if err != nil {
		r.restore(snap)
	}
	return err
}

// fakeRecoster implementa stock.ProductRecoster; registra las invocaciones y
// puede fallar a demanda.
type fakeRecoster struct {
	calls []string
	err   error
}

var _ stock.ProductRecoster = (*fakeRecoster)(nil)

func (f *fakeRecoster) RecostByIngredient(
	productRepo repository.ProductRepository,
	ingredientRepo repository.IngredientRepository,
	ingredientID string,
) error {
	f.calls = append(f.calls, ingredientID)
	return f.err
}
