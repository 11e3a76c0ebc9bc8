package categories

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/bdajaya/adminku-core/internal/domain"
	"github.com/bdajaya/adminku-core/internal/domain/entity"
	"github.com/bdajaya/adminku-core/internal/domain/repository"
)

// UseCase mantiene el árbol de categorías: un bosque con raíces de nivel 0,
// profundidad acotada por configuración y nombres únicos entre hermanas.
// Las mutaciones estructurales se serializan con un mutex de proceso: el
// recálculo de niveles durante un movimiento no debe intercalarse con un
// alta hermana que lea un nivel obsoleto.
type UseCase struct {
	mu sync.Mutex

	txRunner   TxRunner
	categories repository.CategoryRepository
	products   repository.ProductRepository
	config     repository.ConfigRepository

	defaultMaxDepth int
}

// NewUseCase construye el caso de uso. defaultMaxDepth aplica cuando la tabla
// config no define max_category_depth.
func NewUseCase(
	txRunner TxRunner,
	categories repository.CategoryRepository,
	products repository.ProductRepository,
	config repository.ConfigRepository,
	defaultMaxDepth int,
) *UseCase {
	if defaultMaxDepth < 1 {
		defaultMaxDepth = 5
	}
	return &UseCase{
		txRunner:        txRunner,
		categories:      categories,
		products:        products,
		config:          config,
		defaultMaxDepth: defaultMaxDepth,
	}
}

// maxDepth lee el nivel máximo permitido. Se consulta en cada operación que
// afecta profundidad: la clave max_category_depth de la tabla config tiene
// prioridad sobre el valor de configuración del proceso.
func (uc *UseCase) maxDepth() int {
	if uc.config != nil {
		row, err := uc.config.Get(entity.ConfigKeyMaxCategoryDepth)
		if err == nil && row != nil {
			if n, err := strconv.Atoi(row.Value); err == nil && n >= 1 {
				return n
			}
		}
	}
	return uc.defaultMaxDepth
}

// Create agrega una categoría. parentID vacío crea una raíz (nivel 0); si no,
// el padre debe existir y el nivel resultante no puede superar el máximo.
// El nombre debe ser único entre hermanas. Marca HasChildren del padre.
func (uc *UseCase) Create(ctx context.Context, parentID, name, description string) (*entity.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	level := 0
	if parentID != "" {
		parent, err := uc.categories.GetByID(parentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, domain.ErrNotFound
		}
		level = parent.Level + 1
		if level > uc.maxDepth() {
			return nil, domain.ErrMaxDepthExceeded
		}
	}

	dup, err := uc.categories.CountSiblingsByName(parentID, name)
	if err != nil {
		return nil, err
	}
	if dup > 0 {
		return nil, domain.ErrDuplicateSiblingName
	}

	now := time.Now()
	category := &entity.Category{
		ID:          uuid.New().String(),
		ParentID:    parentID,
		Level:       level,
		Name:        name,
		Description: description,
		HasChildren: false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = uc.txRunner.RunTree(ctx, func(cats repository.CategoryRepository) error {
		if err := cats.Create(category); err != nil {
			return err
		}
		if parentID != "" {
			// Idempotente: poner la bandera en true aunque ya lo esté
			return cats.SetHasChildren(parentID, true)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// Rename cambia nombre y descripción manteniendo la unicidad entre hermanas.
func (uc *UseCase) Rename(id, newName, description string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return domain.ErrInvalidInput
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	category, err := uc.categories.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return domain.ErrNotFound
	}

	if !strings.EqualFold(newName, category.Name) {
		dup, err := uc.categories.CountSiblingsByName(category.ParentID, newName)
		if err != nil {
			return err
		}
		if dup > 0 {
			return domain.ErrDuplicateSiblingName
		}
	}

	category.Name = newName
	category.Description = description
	category.UpdatedAt = time.Now()
	return uc.categories.Update(category)
}

// Delete elimina una categoría sin hijas ni productos asociados. Si era la
// última hija de su padre, limpia la bandera HasChildren del padre.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	category, err := uc.categories.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return domain.ErrNotFound
	}

	children, err := uc.categories.CountChildren(id)
	if err != nil {
		return err
	}
	if children > 0 {
		return domain.ErrHasChildren
	}

	products, err := uc.products.CountByCategory(id)
	if err != nil {
		return err
	}
	if products > 0 {
		return domain.ErrHasProducts
	}

	return uc.txRunner.RunTree(ctx, func(cats repository.CategoryRepository) error {
		if err := cats.Delete(id); err != nil {
			return err
		}
		if category.ParentID != "" {
			remaining, err := cats.CountChildren(category.ParentID)
			if err != nil {
				return err
			}
			return cats.SetHasChildren(category.ParentID, remaining > 0)
		}
		return nil
	})
}

// Move reubica una categoría bajo otro padre (o a la raíz con newParentID
// vacío). Todo el subárbol se desplaza el mismo delta de nivel; falla si el
// destino está dentro del propio subárbol o si algún descendiente superaría
// la profundidad máxima.
func (uc *UseCase) Move(ctx context.Context, id, newParentID string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	category, err := uc.categories.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return domain.ErrNotFound
	}
	if newParentID == id {
		return domain.ErrCyclicMove
	}

	newLevel := 0
	if newParentID != "" {
		parent, err := uc.categories.GetByID(newParentID)
		if err != nil {
			return err
		}
		if parent == nil {
			return domain.ErrNotFound
		}
		newLevel = parent.Level + 1
	}

	// Recorrido previo del subárbol: detecta ciclos y el nivel más profundo
	subtree, err := uc.collectSubtree(id)
	if err != nil {
		return err
	}
	deepest := category.Level
	for _, d := range subtree {
		if d.ID == newParentID {
			return domain.ErrCyclicMove
		}
		if d.Level > deepest {
			deepest = d.Level
		}
	}

	// El nodo y todo descendiente se desplazan el mismo delta; basta validar el más profundo
	delta := newLevel - category.Level
	if deepest+delta > uc.maxDepth() {
		return domain.ErrMaxDepthExceeded
	}

	if newParentID != category.ParentID {
		dup, err := uc.categories.CountSiblingsByName(newParentID, category.Name)
		if err != nil {
			return err
		}
		if dup > 0 {
			return domain.ErrDuplicateSiblingName
		}
	}

	oldParentID := category.ParentID
	now := time.Now()

	return uc.txRunner.RunTree(ctx, func(cats repository.CategoryRepository) error {
		category.ParentID = newParentID
		category.Level = newLevel
		category.UpdatedAt = now
		if err := cats.Update(category); err != nil {
			return err
		}
		for _, d := range subtree {
			d.Level += delta
			d.UpdatedAt = now
			if err := cats.Update(d); err != nil {
				return err
			}
		}
		if oldParentID != "" {
			remaining, err := cats.CountChildren(oldParentID)
			if err != nil {
				return err
			}
			if err := cats.SetHasChildren(oldParentID, remaining > 0); err != nil {
				return err
			}
		}
		if newParentID != "" {
			return cats.SetHasChildren(newParentID, true)
		}
		return nil
	})
}

// Get obtiene una categoría por ID.
func (uc *UseCase) Get(id string) (*entity.Category, error) {
	category, err := uc.categories.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}
	return category, nil
}

// ListRoots devuelve las categorías raíz ordenadas por nombre.
func (uc *UseCase) ListRoots() ([]*entity.Category, error) {
	return uc.categories.ListRoots()
}

// ListChildren devuelve las hijas directas de una categoría.
func (uc *UseCase) ListChildren(parentID string) ([]*entity.Category, error) {
	return uc.categories.ListChildren(parentID)
}

// Search busca por subcadena de nombre sin distinguir mayúsculas, ordenado
// por nivel ascendente y luego nombre, acotado a limit resultados.
func (uc *UseCase) Search(query string, limit int) ([]*entity.Category, error) {
	if limit <= 0 {
		return nil, domain.ErrInvalidInput
	}
	return uc.categories.Search(query, limit)
}

// CategoryWithPath es un resultado de búsqueda junto con su cadena de
// ancestros (breadcrumb), de raíz a nodo.
type CategoryWithPath struct {
	Category *entity.Category
	Path     []*entity.Category
}

// SearchWithPath busca como Search y anexa la ruta a la raíz de cada resultado.
func (uc *UseCase) SearchWithPath(query string, limit int) ([]CategoryWithPath, error) {
	matches, err := uc.Search(query, limit)
	if err != nil {
		return nil, err
	}
	result := make([]CategoryWithPath, 0, len(matches))
	for _, m := range matches {
		path, err := uc.PathToRoot(m.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, CategoryWithPath{Category: m, Path: path})
	}
	return result, nil
}

// PathToRoot devuelve la cadena de ancestros ordenada de la raíz al nodo.
// Camina hacia arriba de forma iterativa, acotada por la profundidad máxima.
func (uc *UseCase) PathToRoot(id string) ([]*entity.Category, error) {
	var path []*entity.Category
	currentID := id
	// maxDepth+1 niveles posibles; una vuelta más absorbe configuraciones reducidas en caliente
	for i := 0; i <= uc.maxDepth()+1; i++ {
		category, err := uc.categories.GetByID(currentID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			if len(path) == 0 {
				return nil, domain.ErrNotFound
			}
			break
		}
		path = append(path, category)
		if category.ParentID == "" {
			break
		}
		currentID = category.ParentID
	}
	// Invertir: se recolectó de nodo a raíz
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// WalkSubtree recorre los descendientes de id en profundidad (DFS), invocando
// fn por cada uno. Cada llamada inicia un recorrido nuevo: no hay cursor
// compartido. Devolver un error desde fn corta el recorrido.
func (uc *UseCase) WalkSubtree(id string, fn func(*entity.Category) error) error {
	root, err := uc.categories.GetByID(id)
	if err != nil {
		return err
	}
	if root == nil {
		return domain.ErrNotFound
	}

	children, err := uc.categories.ListChildren(id)
	if err != nil {
		return err
	}
	// Apilar en orden inverso para visitar las hijas en orden de lista
	var stack []*entity.Category
	for i := len(children) - 1; i >= 0; i-- {
		stack = append(stack, children[i])
	}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if err := fn(current); err != nil {
			return err
		}
		grandchildren, err := uc.categories.ListChildren(current.ID)
		if err != nil {
			return err
		}
		for i := len(grandchildren) - 1; i >= 0; i-- {
			stack = append(stack, grandchildren[i])
		}
	}
	return nil
}

// Subtree materializa WalkSubtree en una lista.
func (uc *UseCase) Subtree(id string) ([]*entity.Category, error) {
	var result []*entity.Category
	err := uc.WalkSubtree(id, func(c *entity.Category) error {
		result = append(result, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// collectSubtree reúne los descendientes para operaciones de movimiento.
func (uc *UseCase) collectSubtree(id string) ([]*entity.Category, error) {
	var result []*entity.Category
	stack := []string{id}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, err := uc.categories.ListChildren(current)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			result = append(result, child)
			stack = append(stack, child.ID)
		}
	}
	return result, nil
}
