package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
)

var _ repository.IngredientRepository = (*IngredientRepo)(nil)

// IngredientRepo implementación del puerto IngredientRepository sobre PostgreSQL (usable con pool o tx).
type IngredientRepo struct {
	q Querier
}

// NewIngredientRepository construye el adaptador de persistencia para insumos. Pasar pool o tx (Querier).
func NewIngredientRepository(q Querier) *IngredientRepo {
	return &IngredientRepo{q: q}
}

const ingredientColumns = `id, user_id, name, unit, waste_percent, cost_per_ml, cost_per_gram, cost_per_unit, created_at, updated_at`

// Create persiste un nuevo insumo. Los campos de costo inician en NULL (sin compras).
func (r *IngredientRepo) Create(ing *entity.Ingredient) error {
	query := `
		INSERT INTO ingredients (` + ingredientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		ing.ID, ing.UserID, ing.Name, ing.Unit, ing.WastePercent,
		ing.CostPerML, ing.CostPerGram, ing.CostPerUnit, ing.CreatedAt, ing.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert ingredient: %w", err)
	}
	return nil
}

// GetByID obtiene un insumo por ID.
func (r *IngredientRepo) GetByID(id string) (*entity.Ingredient, error) {
	query := `SELECT ` + ingredientColumns + ` FROM ingredients WHERE id = $1`
	ing, err := r.scanOne(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	return ing, nil
}

// ListByUser lista insumos del usuario con paginación.
func (r *IngredientRepo) ListByUser(userID string, limit, offset int) ([]*entity.Ingredient, error) {
	query := `
		SELECT ` + ingredientColumns + `
		FROM ingredients WHERE user_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	defer rows.Close()
	var list []*entity.Ingredient
	for rows.Next() {
		var ing entity.Ingredient
		if err := rows.Scan(&ing.ID, &ing.UserID, &ing.Name, &ing.Unit, &ing.WastePercent,
			&ing.CostPerML, &ing.CostPerGram, &ing.CostPerUnit, &ing.CreatedAt, &ing.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		list = append(list, &ing)
	}
	return list, rows.Err()
}

// Update actualiza nombre, unidad y merma declarada del insumo.
func (r *IngredientRepo) Update(ing *entity.Ingredient) error {
	query := `
		UPDATE ingredients SET name = $2, unit = $3, waste_percent = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		ing.ID, ing.Name, ing.Unit, ing.WastePercent, ing.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update ingredient: %w", err)
	}
	return nil
}

// UpdateCosts reemplaza los tres campos de costo derivado (exactamente uno no NULL).
func (r *IngredientRepo) UpdateCosts(ing *entity.Ingredient) error {
	query := `
		UPDATE ingredients SET cost_per_ml = $2, cost_per_gram = $3, cost_per_unit = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		ing.ID, ing.CostPerML, ing.CostPerGram, ing.CostPerUnit, ing.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update ingredient costs: %w", err)
	}
	return nil
}

// Delete elimina el insumo; lotes, mermas y bitácoras asociadas caen por ON DELETE CASCADE.
func (r *IngredientRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM ingredients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete ingredient: %w", err)
	}
	return nil
}

func (r *IngredientRepo) scanOne(row pgx.Row) (*entity.Ingredient, error) {
	var ing entity.Ingredient
	err := row.Scan(&ing.ID, &ing.UserID, &ing.Name, &ing.Unit, &ing.WastePercent,
		&ing.CostPerML, &ing.CostPerGram, &ing.CostPerUnit, &ing.CreatedAt, &ing.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &ing, nil
}
