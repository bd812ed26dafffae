package stock

import (
	"context"

	"github.com/jhoicas/insumos-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de stock:
// compra, merma y deducción por venta son unidades de trabajo todo-o-nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		batchRepo repository.StockBatchRepository,
		ingredientRepo repository.IngredientRepository,
		wasteRepo repository.WasteRecordRepository,
		saleRepo repository.SaleRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// ProductRecoster recalcula costo/margen de los productos que usan un insumo.
// Lo implementa el caso de uso de productos. Recibe los repositorios de la
// transacción en curso: el recosteo forma parte de la misma unidad de trabajo
// que la compra o el cambio de insumo que lo dispara.
type ProductRecoster interface {
	RecostByIngredient(
		productRepo repository.ProductRepository,
		ingredientRepo repository.IngredientRepository,
		ingredientID string,
	) error
}
