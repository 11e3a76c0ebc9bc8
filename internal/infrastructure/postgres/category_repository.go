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

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

const categoryColumns = `id, COALESCE(parent_id, ''), level, name, description, has_children, created_at, updated_at`

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL
// (usable con pool o tx). ParentID vacío se persiste como NULL para que el
// índice único de hermanas funcione por nivel raíz.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador de persistencia para categorías. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// nullableParent convierte ParentID vacío a NULL.
func nullableParent(parentID string) any {
	if parentID == "" {
		return nil
	}
	return parentID
}

// Create persiste una categoría nueva.
func (r *CategoryRepo) Create(category *entity.Category) error {
	query := `
		INSERT INTO categories (id, parent_id, level, name, description, has_children, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		category.ID, nullableParent(category.ParentID), category.Level, category.Name,
		category.Description, category.HasChildren, category.CreatedAt, category.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateSiblingName
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID obtiene una categoría por ID.
func (r *CategoryRepo) GetByID(id string) (*entity.Category, error) {
	var c entity.Category
	err := r.q.QueryRow(context.Background(),
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id,
	).Scan(&c.ID, &c.ParentID, &c.Level, &c.Name, &c.Description, &c.HasChildren, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// Update actualiza una categoría existente (incluye padre y nivel para movimientos).
func (r *CategoryRepo) Update(category *entity.Category) error {
	query := `
		UPDATE categories SET parent_id = $2, level = $3, name = $4, description = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		category.ID, nullableParent(category.ParentID), category.Level,
		category.Name, category.Description, category.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateSiblingName
		}
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Delete elimina una categoría por ID.
func (r *CategoryRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (r *CategoryRepo) list(query string, args ...any) ([]*entity.Category, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.ParentID, &c.Level, &c.Name, &c.Description, &c.HasChildren, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// ListRoots devuelve las categorías raíz ordenadas por nombre.
func (r *CategoryRepo) ListRoots() ([]*entity.Category, error) {
	return r.list(`SELECT ` + categoryColumns + ` FROM categories WHERE parent_id IS NULL ORDER BY name`)
}

// ListChildren devuelve las hijas directas ordenadas por nombre.
func (r *CategoryRepo) ListChildren(parentID string) ([]*entity.Category, error) {
	return r.list(`SELECT `+categoryColumns+` FROM categories WHERE parent_id = $1 ORDER BY name`, parentID)
}

// CountChildren cuenta las hijas directas.
func (r *CategoryRepo) CountChildren(id string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM categories WHERE parent_id = $1`, id,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count children: %w", err)
	}
	return count, nil
}

// CountSiblingsByName cuenta categorías con el mismo padre y nombre, sin
// distinguir mayúsculas. ParentID vacío cuenta entre las raíces.
func (r *CategoryRepo) CountSiblingsByName(parentID, name string) (int, error) {
	var count int
	var err error
	if parentID == "" {
		err = r.q.QueryRow(context.Background(),
			`SELECT COUNT(*) FROM categories WHERE parent_id IS NULL AND lower(name) = lower($1)`, name,
		).Scan(&count)
	} else {
		err = r.q.QueryRow(context.Background(),
			`SELECT COUNT(*) FROM categories WHERE parent_id = $1 AND lower(name) = lower($2)`, parentID, name,
		).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("count siblings by name: %w", err)
	}
	return count, nil
}

// Search busca por subcadena de nombre sin distinguir mayúsculas, ordenado
// por nivel ascendente y luego nombre.
func (r *CategoryRepo) Search(query string, limit int) ([]*entity.Category, error) {
	return r.list(
		`SELECT `+categoryColumns+` FROM categories
		 WHERE name ILIKE '%' || $1 || '%'
		 ORDER BY level, name LIMIT $2`,
		query, limit,
	)
}

// SetHasChildren fija la bandera de hijas (mantenida eager en altas/bajas).
func (r *CategoryRepo) SetHasChildren(id string, hasChildren bool) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE categories SET has_children = $2 WHERE id = $1`, id, hasChildren)
	if err != nil {
		return fmt.Errorf("set has_children: %w", err)
	}
	return nil
}
