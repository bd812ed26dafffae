package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
)

var _ repository.StockBatchRepository = (*StockBatchRepo)(nil)

// StockBatchRepo implementación del puerto StockBatchRepository sobre PostgreSQL (usable con pool o tx).
type StockBatchRepo struct {
	q Querier
}

// NewStockBatchRepository construye el adaptador del libro de lotes. Pasar pool o tx (Querier).
func NewStockBatchRepository(q Querier) *StockBatchRepo {
	return &StockBatchRepo{q: q}
}

const stockBatchColumns = `id, ingredient_id, purchased_quantity, unit, total_purchased_price, price_per_base_unit, waste_percent, remaining_quantity, wasted_quantity, purchased_at, created_at, updated_at`

// Create persiste un lote nuevo (cantidades ya normalizadas a unidad base).
func (r *StockBatchRepo) Create(b *entity.StockBatch) error {
	query := `
		INSERT INTO stock_batches (` + stockBatchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		b.ID, b.IngredientID, b.PurchasedQuantity, b.Unit, b.TotalPurchasedPrice,
		b.PricePerBaseUnit, b.WastePercent, b.RemainingQuantity, b.WastedQuantity,
		b.PurchasedAt, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID.
func (r *StockBatchRepo) GetByID(id string) (*entity.StockBatch, error) {
	query := `SELECT ` + stockBatchColumns + ` FROM stock_batches WHERE id = $1`
	return r.one(query, id)
}

// GetForUpdate obtiene un lote bloqueando su fila (SELECT FOR UPDATE).
// Debe usarse dentro de una transacción.
func (r *StockBatchRepo) GetForUpdate(id string) (*entity.StockBatch, error) {
	query := `SELECT ` + stockBatchColumns + ` FROM stock_batches WHERE id = $1 FOR UPDATE`
	return r.one(query, id)
}

// ListByIngredient lotes del insumo ordenados por compra más antigua primero.
func (r *StockBatchRepo) ListByIngredient(ingredientID string) ([]*entity.StockBatch, error) {
	query := `
		SELECT ` + stockBatchColumns + `
		FROM stock_batches WHERE ingredient_id = $1 ORDER BY purchased_at, id`
	return r.list(query, ingredientID)
}

// ListForUpdate como ListByIngredient pero bloqueando todas las filas.
// El orden fijo (purchased_at, id) da un orden de adquisición de locks
// determinista entre ventas concurrentes.
func (r *StockBatchRepo) ListForUpdate(ingredientID string) ([]*entity.StockBatch, error) {
	query := `
		SELECT ` + stockBatchColumns + `
		FROM stock_batches WHERE ingredient_id = $1 ORDER BY purchased_at, id FOR UPDATE`
	return r.list(query, ingredientID)
}

// LatestOpenForUpdate el lote más reciente con restante > 0, bloqueado; nil si no hay.
func (r *StockBatchRepo) LatestOpenForUpdate(ingredientID string) (*entity.StockBatch, error) {
	query := `
		SELECT ` + stockBatchColumns + `
		FROM stock_batches
		WHERE ingredient_id = $1 AND remaining_quantity > 0
		ORDER BY purchased_at DESC, id DESC LIMIT 1 FOR UPDATE`
	return r.one(query, ingredientID)
}

// Update actualiza las cantidades mutables del lote.
func (r *StockBatchRepo) Update(b *entity.StockBatch) error {
	query := `
		UPDATE stock_batches
		SET purchased_quantity = $2, total_purchased_price = $3, price_per_base_unit = $4,
		    remaining_quantity = $5, wasted_quantity = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		b.ID, b.PurchasedQuantity, b.TotalPurchasedPrice, b.PricePerBaseUnit,
		b.RemainingQuantity, b.WastedQuantity, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock batch: %w", err)
	}
	return nil
}

// TotalRemaining suma de remaining_quantity del insumo, en unidad base.
func (r *StockBatchRepo) TotalRemaining(ingredientID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(remaining_quantity), 0) FROM stock_batches WHERE ingredient_id = $1`,
		ingredientID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total remaining: %w", err)
	}
	return total, nil
}

func (r *StockBatchRepo) one(query string, args ...any) (*entity.StockBatch, error) {
	var b entity.StockBatch
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&b.ID, &b.IngredientID, &b.PurchasedQuantity, &b.Unit, &b.TotalPurchasedPrice,
		&b.PricePerBaseUnit, &b.WastePercent, &b.RemainingQuantity, &b.WastedQuantity,
		&b.PurchasedAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock batch: %w", err)
	}
	return &b, nil
}

func (r *StockBatchRepo) list(query string, args ...any) ([]*entity.StockBatch, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockBatch
	for rows.Next() {
		var b entity.StockBatch
		if err := rows.Scan(&b.ID, &b.IngredientID, &b.PurchasedQuantity, &b.Unit, &b.TotalPurchasedPrice,
			&b.PricePerBaseUnit, &b.WastePercent, &b.RemainingQuantity, &b.WastedQuantity,
			&b.PurchasedAt, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock batch: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
