package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
)

var _ repository.WasteRecordRepository = (*WasteRecordRepo)(nil)

// WasteRecordRepo implementación del puerto WasteRecordRepository sobre PostgreSQL.
// Los registros de merma solo se insertan y consultan, nunca se editan.
type WasteRecordRepo struct {
	q Querier
}

// NewWasteRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWasteRecordRepository(q Querier) *WasteRecordRepo {
	return &WasteRecordRepo{q: q}
}

// Create persiste un registro de merma.
func (r *WasteRecordRepo) Create(rec *entity.WasteRecord) error {
	query := `
		INSERT INTO waste_records (id, stock_batch_id, quantity, reason, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		rec.ID, rec.StockBatchID, rec.Quantity, rec.Reason, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert waste record: %w", err)
	}
	return nil
}

// ListByBatch registros de merma de un lote, más reciente primero.
func (r *WasteRecordRepo) ListByBatch(stockBatchID string) ([]*entity.WasteRecord, error) {
	query := `
		SELECT id, stock_batch_id, quantity, reason, created_at
		FROM waste_records WHERE stock_batch_id = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, stockBatchID)
	if err != nil {
		return nil, fmt.Errorf("list waste records: %w", err)
	}
	defer rows.Close()
	var list []*entity.WasteRecord
	for rows.Next() {
		var rec entity.WasteRecord
		if err := rows.Scan(&rec.ID, &rec.StockBatchID, &rec.Quantity, &rec.Reason, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan waste record: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}

// ListByUser registros de merma de todos los lotes del usuario, con paginación.
func (r *WasteRecordRepo) ListByUser(userID string, limit, offset int) ([]*entity.WasteRecord, error) {
	query := `
		SELECT w.id, w.stock_batch_id, w.quantity, w.reason, w.created_at
		FROM waste_records w
		JOIN stock_batches b ON b.id = w.stock_batch_id
		JOIN ingredients i ON i.id = b.ingredient_id
		WHERE i.user_id = $1
		ORDER BY w.created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list waste records by user: %w", err)
	}
	defer rows.Close()
	var list []*entity.WasteRecord
	for rows.Next() {
		var rec entity.WasteRecord
		if err := rows.Scan(&rec.ID, &rec.StockBatchID, &rec.Quantity, &rec.Reason, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan waste record: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}
