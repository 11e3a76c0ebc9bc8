package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/bdajaya/adminku-core/internal/domain"
	"github.com/bdajaya/adminku-core/internal/domain/entity"
	"github.com/bdajaya/adminku-core/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, description, barcode, category_id, COALESCE(brand_id, ''), unit_id,
	buy_price, sell_price, margin, stock, status, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func nullableBrand(brandID string) any {
	if brandID == "" {
		return nil
	}
	return brandID
}

// Create persiste un producto nuevo. Stock inicia en 0.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, name, description, barcode, category_id, brand_id, unit_id,
			buy_price, sell_price, margin, stock, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Description, product.Barcode,
		product.CategoryID, nullableBrand(product.BrandID), product.UnitID,
		product.BuyPrice, product.SellPrice, product.Margin, product.Stock,
		product.Status, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateBarcode
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) scanOne(row pgx.Row, op string) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Barcode, &p.CategoryID, &p.BrandID, &p.UnitID,
		&p.BuyPrice, &p.SellPrice, &p.Margin, &p.Stock, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return r.scanOne(row, "get product")
}

// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE) para
// serializar escrituras concurrentes del mismo producto dentro de una tx.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
	return r.scanOne(row, "get product for update")
}

// GetByBarcode obtiene un producto por código de barras.
func (r *ProductRepo) GetByBarcode(barcode string) (*entity.Product, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+productColumns+` FROM products WHERE barcode = $1`, barcode)
	return r.scanOne(row, "get product by barcode")
}

// Update actualiza los campos de catálogo. No toca stock ni barcode: el
// stock lo escribe solo el motor del libro vía UpdateStock.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, description = $3, category_id = $4, brand_id = $5,
			buy_price = $6, sell_price = $7, margin = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Description, product.CategoryID,
		nullableBrand(product.BrandID), product.BuyPrice, product.SellPrice,
		product.Margin, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateStock reescribe la caché de stock (solo el motor del libro la usa).
func (r *ProductRepo) UpdateStock(productID string, stock int64) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET stock = $2, updated_at = now() WHERE id = $1`,
		productID, stock,
	)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	return nil
}

// UpdateStatus cambia solo el estado del producto.
func (r *ProductRepo) UpdateStatus(productID, status string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET status = $2, updated_at = now() WHERE id = $1`,
		productID, status,
	)
	if err != nil {
		return fmt.Errorf("update product status: %w", err)
	}
	return nil
}

func (r *ProductRepo) list(query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Barcode, &p.CategoryID, &p.BrandID, &p.UnitID,
			&p.BuyPrice, &p.SellPrice, &p.Margin, &p.Stock, &p.Status, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// List devuelve productos con paginación, más recientes primero.
func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	return r.list(
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
}

// ListByStatus devuelve productos por estado con paginación.
func (r *ProductRepo) ListByStatus(status string, limit, offset int) ([]*entity.Product, error) {
	return r.list(
		`SELECT `+productColumns+` FROM products WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		status, limit, offset,
	)
}

// Search busca productos por subcadena de nombre sin distinguir mayúsculas.
func (r *ProductRepo) Search(query string, limit int) ([]*entity.Product, error) {
	return r.list(
		`SELECT `+productColumns+` FROM products WHERE name ILIKE '%' || $1 || '%' ORDER BY name LIMIT $2`,
		query, limit,
	)
}

func (r *ProductRepo) count(query string, args ...any) (int, error) {
	var count int
	if err := r.q.QueryRow(context.Background(), query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

// CountByCategory cuenta productos que referencian una categoría.
func (r *ProductRepo) CountByCategory(categoryID string) (int, error) {
	return r.count(`SELECT COUNT(*) FROM products WHERE category_id = $1`, categoryID)
}

// CountByUnit cuenta productos que referencian una unidad.
func (r *ProductRepo) CountByUnit(unitID string) (int, error) {
	return r.count(`SELECT COUNT(*) FROM products WHERE unit_id = $1`, unitID)
}

// CountByBrand cuenta productos que referencian una marca.
func (r *ProductRepo) CountByBrand(brandID string) (int, error) {
	return r.count(`SELECT COUNT(*) FROM products WHERE brand_id = $1`, brandID)
}

// MaxBarcodeSuffix devuelve el mayor sufijo numérico entre los códigos con el
// prefijo dado (0 si no hay ninguno).
func (r *ProductRepo) MaxBarcodeSuffix(prefix string) (int64, error) {
	var max int64
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(MAX(CAST(SUBSTR(barcode, $2) AS BIGINT)), 0)
		 FROM products
		 WHERE barcode LIKE $1 || '%' AND SUBSTR(barcode, $2) ~ '^[0-9]+$'`,
		prefix, len(prefix)+1,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max barcode suffix: %w", err)
	}
	return max, nil
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
