package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/domain/entity"
)

// StockBatchRepository define el puerto del libro de lotes de stock.
// Los métodos *ForUpdate bloquean las filas (SELECT FOR UPDATE) y deben
// usarse dentro de una transacción.
type StockBatchRepository interface {
	Create(batch *entity.StockBatch) error
	GetByID(id string) (*entity.StockBatch, error)
	// GetForUpdate bloquea un lote para lectura-modificación-escritura.
	GetForUpdate(id string) (*entity.StockBatch, error)
	// ListByIngredient lotes ordenados por compra más antigua primero.
	ListByIngredient(ingredientID string) ([]*entity.StockBatch, error)
	// ListForUpdate como ListByIngredient pero bloqueando todas las filas,
	// en orden fijo (purchased_at, id) para evitar deadlocks entre ventas.
	ListForUpdate(ingredientID string) ([]*entity.StockBatch, error)
	// LatestOpenForUpdate el lote más reciente con remaining > 0, bloqueado;
	// nil si no existe (la compra crea lote nuevo).
	LatestOpenForUpdate(ingredientID string) (*entity.StockBatch, error)
	Update(batch *entity.StockBatch) error
	// TotalRemaining suma de remaining_quantity en unidad base del insumo.
	TotalRemaining(ingredientID string) (decimal.Decimal, error)
}
