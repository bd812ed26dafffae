package repository

import "github.com/jhoicas/insumos-api/internal/domain/entity"

// IngredientRepository define el puerto de persistencia para insumos (DIP).
type IngredientRepository interface {
	Create(ingredient *entity.Ingredient) error
	GetByID(id string) (*entity.Ingredient, error)
	ListByUser(userID string, limit, offset int) ([]*entity.Ingredient, error)
	Update(ingredient *entity.Ingredient) error
	// UpdateCosts reemplaza los tres campos de costo derivado (exactamente uno no nil).
	UpdateCosts(ingredient *entity.Ingredient) error
	// Delete elimina el insumo y sus lotes/mermas asociados (única vía de borrado de lotes).
	Delete(id string) error
}
