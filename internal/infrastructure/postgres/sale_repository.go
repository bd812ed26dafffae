package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de persistencia para ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, user_id, product_id, product_name, quantity, total_amount, sold_at, created_at`

// Create persiste una venta. product_id es NULL para ventas de producto no reconocido.
func (r *SaleRepo) Create(s *entity.Sale) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.UserID, s.ProductID, s.ProductName, s.Quantity, s.TotalAmount, s.SoldAt, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// GetByID obtiene una venta por ID.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	var s entity.Sale
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.UserID, &s.ProductID, &s.ProductName, &s.Quantity, &s.TotalAmount, &s.SoldAt, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return &s, nil
}

// ListByUser ventas del usuario, más reciente primero, con paginación.
func (r *SaleRepo) ListByUser(userID string, limit, offset int) ([]*entity.Sale, error) {
	query := `
		SELECT ` + saleColumns + `
		FROM sales WHERE user_id = $1 ORDER BY sold_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.UserID, &s.ProductID, &s.ProductName, &s.Quantity, &s.TotalAmount, &s.SoldAt, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Delete elimina una venta por ID.
func (r *SaleRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	return nil
}

// CreateConsumptions inserta la bitácora de consumo por lote de la venta.
func (r *SaleRepo) CreateConsumptions(consumptions []*entity.SaleConsumption) error {
	query := `
		INSERT INTO sale_consumptions (id, sale_id, stock_batch_id, ingredient_id, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	ctx := context.Background()
	for _, c := range consumptions {
		if _, err := r.q.Exec(ctx, query,
			c.ID, c.SaleID, c.StockBatchID, c.IngredientID, c.Quantity, c.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert sale consumption: %w", err)
		}
	}
	return nil
}

// ListConsumptions bitácora de consumo de la venta.
func (r *SaleRepo) ListConsumptions(saleID string) ([]*entity.SaleConsumption, error) {
	query := `
		SELECT id, sale_id, stock_batch_id, ingredient_id, quantity, created_at
		FROM sale_consumptions WHERE sale_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale consumptions: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleConsumption
	for rows.Next() {
		var c entity.SaleConsumption
		if err := rows.Scan(&c.ID, &c.SaleID, &c.StockBatchID, &c.IngredientID, &c.Quantity, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale consumption: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// DeleteConsumptions borra la bitácora de la venta (al revertir la deducción).
func (r *SaleRepo) DeleteConsumptions(saleID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM sale_consumptions WHERE sale_id = $1`, saleID)
	if err != nil {
		return fmt.Errorf("delete sale consumptions: %w", err)
	}
	return nil
}
