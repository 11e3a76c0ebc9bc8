package repository

import "github.com/bdajaya/adminku-core/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
// UpdateStock es de uso exclusivo del motor de stock: la caché solo tiene
// un camino de escritura.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE) para
	// serializar escrituras concurrentes del mismo producto.
	GetForUpdate(id string) (*entity.Product, error)
	GetByBarcode(barcode string) (*entity.Product, error)
	Update(product *entity.Product) error
	UpdateStock(productID string, stock int64) error
	UpdateStatus(productID, status string) error
	List(limit, offset int) ([]*entity.Product, error)
	ListByStatus(status string, limit, offset int) ([]*entity.Product, error)
	Search(query string, limit int) ([]*entity.Product, error)
	CountByCategory(categoryID string) (int, error)
	CountByUnit(unitID string) (int, error)
	CountByBrand(brandID string) (int, error)
	// MaxBarcodeSuffix devuelve el mayor sufijo numérico entre los códigos
	// de barras generados con el prefijo dado (0 si no hay ninguno).
	MaxBarcodeSuffix(prefix string) (int64, error)
	Delete(id string) error
}
