package catalog

import (
	"context"

	"github.com/bdajaya/adminku-core/internal/application/stock"
	"github.com/bdajaya/adminku-core/internal/domain/entity"
	"github.com/bdajaya/adminku-core/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios del catálogo atados a esa tx. Usado por el borrado de
// producto, que cascada sobre asientos de stock e imágenes.
type TxRunner interface {
	RunCatalog(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		txRepo repository.StockTransactionRepository,
		imageRepo repository.ProductImageRepository,
	) error) error
}

// StockEngine es la vista que el catálogo necesita del motor de stock:
// registrar asientos y consultar el stock derivado. Implementada por
// stock.UseCase.
type StockEngine interface {
	Record(ctx context.Context, input stock.RecordInput) (*entity.StockTransaction, error)
	CurrentStockBase(productID string) (int64, error)
}
