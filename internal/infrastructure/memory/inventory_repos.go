package memory

import (
	"sort"
	"strings"

	"github.com/bdajaya/adminku-core/internal/domain"
	"github.com/bdajaya/adminku-core/internal/domain/entity"
	"github.com/bdajaya/adminku-core/internal/domain/repository"
)

var _ repository.UnitRepository = (*UnitRepo)(nil)

// UnitRepo implementación en memoria del puerto UnitRepository.
type UnitRepo struct {
	store *Store
}

// NewUnitRepository construye el repositorio de unidades en memoria.
func NewUnitRepository(store *Store) *UnitRepo {
	return &UnitRepo{store: store}
}

func (r *UnitRepo) Create(unit *entity.Unit) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.units {
		if strings.EqualFold(u.Name, unit.Name) {
			return domain.ErrDuplicateName
		}
	}
	r.store.units[unit.ID] = *unit
	return nil
}

func (r *UnitRepo) GetByID(id string) (*entity.Unit, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if u, ok := r.store.units[id]; ok {
		cp := u
		return &cp, nil
	}
	return nil, nil
}

func (r *UnitRepo) GetByName(name string) (*entity.Unit, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.units {
		if strings.EqualFold(u.Name, name) {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UnitRepo) Update(unit *entity.Unit) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.units[unit.ID] = *unit
	return nil
}

func (r *UnitRepo) listWhere(keep func(entity.Unit) bool) []*entity.Unit {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var list []*entity.Unit
	for _, u := range r.store.units {
		if keep(u) {
			cp := u
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

func (r *UnitRepo) List() ([]*entity.Unit, error) {
	return r.listWhere(func(entity.Unit) bool { return true }), nil
}

func (r *UnitRepo) ListBaseUnits() ([]*entity.Unit, error) {
	return r.listWhere(func(u entity.Unit) bool { return u.IsBaseUnit }), nil
}

func (r *UnitRepo) ListByBaseUnit(baseUnitName string) ([]*entity.Unit, error) {
	return r.listWhere(func(u entity.Unit) bool {
		return strings.EqualFold(u.BaseUnit, baseUnitName)
	}), nil
}

func (r *UnitRepo) Search(query string, limit int) ([]*entity.Unit, error) {
	list := r.listWhere(func(u entity.Unit) bool {
		return strings.Contains(strings.ToLower(u.Name), strings.ToLower(query))
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *UnitRepo) CountDerivedOf(baseUnitName string) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	count := 0
	for _, u := range r.store.units {
		if strings.EqualFold(u.BaseUnit, baseUnitName) && !strings.EqualFold(u.Name, baseUnitName) {
			count++
		}
	}
	return count, nil
}

func (r *UnitRepo) Delete(id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.units, id)
	return nil
}

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación en memoria del puerto CategoryRepository.
type CategoryRepo struct {
	store *Store
}

// NewCategoryRepository construye el repositorio de categorías en memoria.
func NewCategoryRepository(store *Store) *CategoryRepo {
	return &CategoryRepo{store: store}
}

func (r *CategoryRepo) Create(category *entity.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, c := range r.store.categories {
		if c.ParentID == category.ParentID && strings.EqualFold(c.Name, category.Name) {
			return domain.ErrDuplicateSiblingName
		}
	}
	r.store.categories[category.ID] = *category
	return nil
}

func (r *CategoryRepo) GetByID(id string) (*entity.Category, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if c, ok := r.store.categories[id]; ok {
		cp := c
		return &cp, nil
	}
	return nil, nil
}

func (r *CategoryRepo) Update(category *entity.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.categories[category.ID] = *category
	return nil
}

func (r *CategoryRepo) Delete(id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.categories, id)
	return nil
}

func (r *CategoryRepo) listWhere(keep func(entity.Category) bool) []*entity.Category {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var list []*entity.Category
	for _, c := range r.store.categories {
		if keep(c) {
			cp := c
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Level != list[j].Level {
			return list[i].Level < list[j].Level
		}
		return list[i].Name < list[j].Name
	})
	return list
}

func (r *CategoryRepo) ListRoots() ([]*entity.Category, error) {
	return r.listWhere(func(c entity.Category) bool { return c.ParentID == "" }), nil
}

func (r *CategoryRepo) ListChildren(parentID string) ([]*entity.Category, error) {
	return r.listWhere(func(c entity.Category) bool { return c.ParentID == parentID && parentID != "" }), nil
}

func (r *CategoryRepo) CountChildren(id string) (int, error) {
	children, _ := r.ListChildren(id)
	return len(children), nil
}

func (r *CategoryRepo) CountSiblingsByName(parentID, name string) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	count := 0
	for _, c := range r.store.categories {
		if c.ParentID == parentID && strings.EqualFold(c.Name, name) {
			count++
		}
	}
	return count, nil
}

func (r *CategoryRepo) Search(query string, limit int) ([]*entity.Category, error) {
	list := r.listWhere(func(c entity.Category) bool {
		return strings.Contains(strings.ToLower(c.Name), strings.ToLower(query))
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *CategoryRepo) SetHasChildren(id string, hasChildren bool) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if c, ok := r.store.categories[id]; ok {
		c.HasChildren = hasChildren
		r.store.categories[id] = c
	}
	return nil
}
