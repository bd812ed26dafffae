package repository

import "github.com/jhoicas/insumos-api/internal/domain/entity"

// WasteRecordRepository define el puerto para registros de merma (solo inserción y lectura).
type WasteRecordRepository interface {
	Create(record *entity.WasteRecord) error
	ListByBatch(stockBatchID string) ([]*entity.WasteRecord, error)
	ListByUser(userID string, limit, offset int) ([]*entity.WasteRecord, error)
}
