package categories

import (
	"context"

	"github.com/bdajaya/adminku-core/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando un
// repositorio de categorías atado a esa tx. Las mutaciones estructurales del
// árbol (alta, baja, movimiento) tocan varias filas y deben ser atómicas.
type TxRunner interface {
	RunTree(ctx context.Context, fn func(categories repository.CategoryRepository) error) error
}
