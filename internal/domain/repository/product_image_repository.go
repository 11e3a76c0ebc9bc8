package repository

import "github.com/bdajaya/adminku-core/internal/domain/entity"

// ProductImageRepository define el puerto de persistencia para imágenes de
// producto (solo filas; los archivos viven en un almacenamiento externo).
type ProductImageRepository interface {
	Create(image *entity.ProductImage) error
	ListByProduct(productID string) ([]*entity.ProductImage, error)
	Delete(id string) error
	DeleteByProduct(productID string) (int64, error)
}
