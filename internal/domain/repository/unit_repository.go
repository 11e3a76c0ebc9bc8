package repository

import "github.com/bdajaya/adminku-core/internal/domain/entity"

// UnitRepository define el puerto de persistencia para Unit (DIP).
type UnitRepository interface {
	Create(unit *entity.Unit) error
	GetByID(id string) (*entity.Unit, error)
	GetByName(name string) (*entity.Unit, error)
	Update(unit *entity.Unit) error
	List() ([]*entity.Unit, error)
	ListBaseUnits() ([]*entity.Unit, error)
	ListByBaseUnit(baseUnitName string) ([]*entity.Unit, error)
	Search(query string, limit int) ([]*entity.Unit, error)
	// CountDerivedOf cuenta las unidades cuyo BaseUnit apunta al nombre dado
	// (excluyendo la propia unidad base).
	CountDerivedOf(baseUnitName string) (int, error)
	Delete(id string) error
}
