package repository

import "github.com/bdajaya/adminku-core/internal/domain/entity"

// CategoryRepository define el puerto de persistencia para Category (DIP).
// ParentID vacío refiere a las categorías raíz.
type CategoryRepository interface {
	Create(category *entity.Category) error
	GetByID(id string) (*entity.Category, error)
	Update(category *entity.Category) error
	Delete(id string) error
	ListRoots() ([]*entity.Category, error)
	ListChildren(parentID string) ([]*entity.Category, error)
	CountChildren(id string) (int, error)
	// CountSiblingsByName cuenta categorías con el mismo padre y nombre
	// (comparación sin distinguir mayúsculas).
	CountSiblingsByName(parentID, name string) (int, error)
	// Search busca por subcadena de nombre sin distinguir mayúsculas,
	// ordenado por nivel ascendente y luego nombre.
	Search(query string, limit int) ([]*entity.Category, error)
	SetHasChildren(id string, hasChildren bool) error
}
