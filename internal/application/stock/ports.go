package stock

import (
	"context"

	"github.com/bdajaya/adminku-core/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que el alta en el libro y la
// reescritura de la caché de stock del producto sean una unidad atómica.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		txRepo repository.StockTransactionRepository,
		productRepo repository.ProductRepository,
	) error) error
}
