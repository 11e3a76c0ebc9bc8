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

var _ repository.UnitRepository = (*UnitRepo)(nil)

const unitColumns = `id, name, base_unit, conversion_factor, is_base_unit, created_at, updated_at`

// UnitRepo implementación del puerto UnitRepository sobre PostgreSQL (usable con pool o tx).
type UnitRepo struct {
	q Querier
}

// NewUnitRepository construye el adaptador de persistencia para unidades. Pasar pool o tx (Querier).
func NewUnitRepository(q Querier) *UnitRepo {
	return &UnitRepo{q: q}
}

// Create persiste una unidad nueva.
func (r *UnitRepo) Create(unit *entity.Unit) error {
	query := `
		INSERT INTO units (id, name, base_unit, conversion_factor, is_base_unit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		unit.ID, unit.Name, unit.BaseUnit, unit.ConversionFactor, unit.IsBaseUnit,
		unit.CreatedAt, unit.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateName
		}
		return fmt.Errorf("insert unit: %w", err)
	}
	return nil
}

func (r *UnitRepo) scanOne(row pgx.Row, op string) (*entity.Unit, error) {
	var u entity.Unit
	err := row.Scan(&u.ID, &u.Name, &u.BaseUnit, &u.ConversionFactor, &u.IsBaseUnit, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}

// GetByID obtiene una unidad por ID.
func (r *UnitRepo) GetByID(id string) (*entity.Unit, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+unitColumns+` FROM units WHERE id = $1`, id)
	return r.scanOne(row, "get unit")
}

// GetByName obtiene una unidad por nombre.
func (r *UnitRepo) GetByName(name string) (*entity.Unit, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+unitColumns+` FROM units WHERE name = $1`, name)
	return r.scanOne(row, "get unit by name")
}

// Update actualiza una unidad existente.
func (r *UnitRepo) Update(unit *entity.Unit) error {
	query := `
		UPDATE units SET name = $2, base_unit = $3, conversion_factor = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		unit.ID, unit.Name, unit.BaseUnit, unit.ConversionFactor, unit.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateName
		}
		return fmt.Errorf("update unit: %w", err)
	}
	return nil
}

func (r *UnitRepo) list(query string, args ...any) ([]*entity.Unit, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()
	var list []*entity.Unit
	for rows.Next() {
		var u entity.Unit
		if err := rows.Scan(&u.ID, &u.Name, &u.BaseUnit, &u.ConversionFactor, &u.IsBaseUnit, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

// List devuelve todas las unidades ordenadas por nombre.
func (r *UnitRepo) List() ([]*entity.Unit, error) {
	return r.list(`SELECT ` + unitColumns + ` FROM units ORDER BY name`)
}

// ListBaseUnits devuelve solo las unidades base.
func (r *UnitRepo) ListBaseUnits() ([]*entity.Unit, error) {
	return r.list(`SELECT ` + unitColumns + ` FROM units WHERE is_base_unit ORDER BY name`)
}

// ListByBaseUnit devuelve la familia de una unidad base.
func (r *UnitRepo) ListByBaseUnit(baseUnitName string) ([]*entity.Unit, error) {
	return r.list(`SELECT `+unitColumns+` FROM units WHERE base_unit = $1 ORDER BY conversion_factor, name`, baseUnitName)
}

// Search busca unidades por subcadena de nombre sin distinguir mayúsculas.
func (r *UnitRepo) Search(query string, limit int) ([]*entity.Unit, error) {
	return r.list(
		`SELECT `+unitColumns+` FROM units WHERE name ILIKE '%' || $1 || '%' ORDER BY name LIMIT $2`,
		query, limit,
	)
}

// CountDerivedOf cuenta las unidades derivadas de la unidad base nombrada.
func (r *UnitRepo) CountDerivedOf(baseUnitName string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM units WHERE base_unit = $1 AND name <> $1`, baseUnitName,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count derived units: %w", err)
	}
	return count, nil
}

// Delete elimina una unidad por ID.
func (r *UnitRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM units WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete unit: %w", err)
	}
	return nil
}
