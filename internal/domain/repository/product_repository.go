package repository

import "github.com/jhoicas/insumos-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para productos y sus recetas.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	ListByUser(userID string, limit, offset int) ([]*entity.Product, error)
	Update(product *entity.Product) error
	Delete(id string) error

	// ReplaceRecipe reemplaza todas las líneas de receta de un producto.
	ReplaceRecipe(productID string, lines []*entity.RecipeLine) error
	ListRecipe(productID string) ([]*entity.RecipeLine, error)
	// ListByIngredient productos cuya receta usa el insumo (para recosteo).
	ListByIngredient(ingredientID string) ([]*entity.Product, error)
	// IngredientInUse indica si algún producto referencia el insumo.
	IngredientInUse(ingredientID string) (bool, error)
}
