package postgres

import (
	"context"
	"fmt"

	"github.com/bdajaya/adminku-core/internal/domain/entity"
	"github.com/bdajaya/adminku-core/internal/domain/repository"
)

var _ repository.ProductImageRepository = (*ProductImageRepo)(nil)

// ProductImageRepo implementación del puerto ProductImageRepository sobre PostgreSQL.
type ProductImageRepo struct {
	q Querier
}

// NewProductImageRepository construye el adaptador para imágenes de producto.
func NewProductImageRepository(q Querier) *ProductImageRepo {
	return &ProductImageRepo{q: q}
}

// Create persiste la referencia de una imagen.
func (r *ProductImageRepo) Create(image *entity.ProductImage) error {
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO product_images (id, product_id, path, order_index, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		image.ID, image.ProductID, image.Path, image.OrderIndex, image.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product image: %w", err)
	}
	return nil
}

// ListByProduct devuelve las imágenes de un producto ordenadas por order_index.
func (r *ProductImageRepo) ListByProduct(productID string) ([]*entity.ProductImage, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, product_id, path, order_index, created_at
		 FROM product_images WHERE product_id = $1 ORDER BY order_index, created_at`,
		productID,
	)
	if err != nil {
		return nil, fmt.Errorf("list product images: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductImage
	for rows.Next() {
		var img entity.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.Path, &img.OrderIndex, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product image: %w", err)
		}
		list = append(list, &img)
	}
	return list, rows.Err()
}

// Delete elimina una imagen por ID.
func (r *ProductImageRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM product_images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product image: %w", err)
	}
	return nil
}

// DeleteByProduct elimina todas las imágenes de un producto (cascada de borrado).
func (r *ProductImageRepo) DeleteByProduct(productID string) (int64, error) {
	tag, err := r.q.Exec(context.Background(),
		`DELETE FROM product_images WHERE product_id = $1`, productID)
	if err != nil {
		return 0, fmt.Errorf("delete product images: %w", err)
	}
	return tag.RowsAffected(), nil
}
