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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, user_id, name, sell_price, total_cost, margin_amount, margin_percent, status, created_at, updated_at`

// Create persiste un producto con sus campos derivados ya calculados.
func (r *ProductRepo) Create(p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.UserID, p.Name, p.SellPrice, p.TotalCost,
		p.MarginAmount, p.MarginPercent, p.Status, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	var p entity.Product
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.UserID, &p.Name, &p.SellPrice, &p.TotalCost,
		&p.MarginAmount, &p.MarginPercent, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// ListByUser lista productos del usuario con paginación.
func (r *ProductRepo) ListByUser(userID string, limit, offset int) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products WHERE user_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// Update actualiza el producto incluyendo sus campos derivados.
func (r *ProductRepo) Update(p *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, sell_price = $3, total_cost = $4, margin_amount = $5,
		    margin_percent = $6, status = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.Name, p.SellPrice, p.TotalCost, p.MarginAmount,
		p.MarginPercent, p.Status, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// Delete elimina un producto; sus líneas de receta caen por ON DELETE CASCADE.
func (r *ProductRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// ReplaceRecipe reemplaza todas las líneas de receta del producto.
func (r *ProductRepo) ReplaceRecipe(productID string, lines []*entity.RecipeLine) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM recipe_lines WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("clear recipe: %w", err)
	}
	query := `
		INSERT INTO recipe_lines (id, product_id, ingredient_id, quantity, unit, is_optional, line_cost)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, l := range lines {
		if _, err := r.q.Exec(ctx, query,
			l.ID, l.ProductID, l.IngredientID, l.Quantity, l.Unit, l.IsOptional, l.LineCost,
		); err != nil {
			return fmt.Errorf("insert recipe line: %w", err)
		}
	}
	return nil
}

// ListRecipe líneas de receta del producto, en orden de inserción estable.
func (r *ProductRepo) ListRecipe(productID string) ([]*entity.RecipeLine, error) {
	query := `
		SELECT id, product_id, ingredient_id, quantity, unit, is_optional, line_cost
		FROM recipe_lines WHERE product_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list recipe: %w", err)
	}
	defer rows.Close()
	var list []*entity.RecipeLine
	for rows.Next() {
		var l entity.RecipeLine
		if err := rows.Scan(&l.ID, &l.ProductID, &l.IngredientID, &l.Quantity, &l.Unit, &l.IsOptional, &l.LineCost); err != nil {
			return nil, fmt.Errorf("scan recipe line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// ListByIngredient productos cuya receta usa el insumo (para recosteo tras compras).
func (r *ProductRepo) ListByIngredient(ingredientID string) ([]*entity.Product, error) {
	query := `
		SELECT DISTINCT p.id, p.user_id, p.name, p.sell_price, p.total_cost, p.margin_amount, p.margin_percent, p.status, p.created_at, p.updated_at
		FROM products p
		JOIN recipe_lines l ON l.product_id = p.id
		WHERE l.ingredient_id = $1`
	rows, err := r.q.Query(context.Background(), query, ingredientID)
	if err != nil {
		return nil, fmt.Errorf("list products by ingredient: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// IngredientInUse indica si algún producto referencia el insumo en su receta.
func (r *ProductRepo) IngredientInUse(ingredientID string) (bool, error) {
	var inUse bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM recipe_lines WHERE ingredient_id = $1)`,
		ingredientID,
	).Scan(&inUse)
	if err != nil {
		return false, fmt.Errorf("ingredient in use: %w", err)
	}
	return inUse, nil
}

func scanProducts(rows pgx.Rows) ([]*entity.Product, error) {
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.SellPrice, &p.TotalCost,
			&p.MarginAmount, &p.MarginPercent, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
