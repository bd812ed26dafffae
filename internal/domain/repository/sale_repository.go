package repository

import "github.com/jhoicas/insumos-api/internal/domain/entity"

// SaleRepository define el puerto para ventas y su bitácora de consumo por lote.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	GetByID(id string) (*entity.Sale, error)
	ListByUser(userID string, limit, offset int) ([]*entity.Sale, error)
	Delete(id string) error

	CreateConsumptions(consumptions []*entity.SaleConsumption) error
	ListConsumptions(saleID string) ([]*entity.SaleConsumption, error)
	DeleteConsumptions(saleID string) error
}
