package product_test

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/application/stock"
	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
	"github.com/jhoicas/insumos-api/internal/domain/unit"
)

// Fakes en memoria para probar el costeo de productos sin base de datos.

type fakeProductRepo struct {
	products map[string]*entity.Product
	recipes  map[string][]*entity.RecipeLine
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		products: map[string]*entity.Product{},
		recipes:  map[string][]*entity.RecipeLine{},
	}
}

var _ repository.ProductRepository = (*fakeProductRepo)(nil)

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
	if _, ok := r.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
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
	ps, _ := r.ListByIngredient(ingredientID)
	return len(ps) > 0, nil
}

type fakeIngredientRepo struct {
	ingredients map[string]*entity.Ingredient
}

func newFakeIngredientRepo() *fakeIngredientRepo {
	return &fakeIngredientRepo{ingredients: map[string]*entity.Ingredient{}}
}

var _ repository.IngredientRepository = (*fakeIngredientRepo)(nil)

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

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// seedIngredient insumo con costo real por unidad base ya derivado.
func seedIngredient(repo *fakeIngredientRepo, id, name string, u unit.Unit, costPerBase float64) *entity.Ingredient {
	ing := &entity.Ingredient{ID: id, UserID: "user-1", Name: name, Unit: u}
	ing.SetTrueCostPerBase(dec(costPerBase))
	repo.ingredients[id] = ing
	return ing
}

// fakeTxRunner entrega los fakes al callback y simula el rollback: si el
// callback falla, los mapas de productos y recetas vuelven al estado previo.
// replaceErr permite forzar el fallo de ReplaceRecipe dentro de la tx.
type fakeTxRunner struct {
	productRepo    *fakeProductRepo
	ingredientRepo *fakeIngredientRepo
	replaceErr     error
}

var _ stock.TxRunner = (*fakeTxRunner)(nil)

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	repository.StockBatchRepository,
	repository.IngredientRepository,
	repository.WasteRecordRepository,
	repository.SaleRepository,
	repository.ProductRepository,
) error) error {
	prevProducts := make(map[string]*entity.Product, len(r.productRepo.products))
	for id, p := range r.productRepo.products {
		cp := *p
		prevProducts[id] = &cp
	}
	prevRecipes := make(map[string][]*entity.RecipeLine, len(r.productRepo.recipes))
	for id, lines := range r.productRepo.recipes {
		cps := make([]*entity.RecipeLine, len(lines))
		for i, l := range lines {
			cp := *l
			cps[i] = &cp
		}
		prevRecipes[id] = cps
	}

	var productRepo repository.ProductRepository = r.productRepo
	if r.replaceErr != nil {
		productRepo = &failingRecipeRepo{fakeProductRepo: r.productRepo, err: r.replaceErr}
	}
	err := fn(nil, r.ingredientRepo, nil, nil, productRepo)
	if err != nil {
		r.productRepo.products = prevProducts
		r.productRepo.recipes = prevRecipes
	}
	return err
}

// failingRecipeRepo falla al escribir la receta; el resto delega al fake.
type failingRecipeRepo struct {
	*fakeProductRepo
	err error
}

func (r *failingRecipeRepo) ReplaceRecipe(productID string, lines []*entity.RecipeLine) error {
	return r.err
}
