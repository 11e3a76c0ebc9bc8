package units

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/bdajaya/adminku-core/internal/domain"
	"github.com/bdajaya/adminku-core/internal/domain/entity"
	"github.com/bdajaya/adminku-core/internal/domain/repository"
)

// maxConversionFactor límite superior del factor de conversión.
const maxConversionFactor = 1_000_000

// Unidades base sembradas por defecto en una instalación vacía.
const (
	DefaultBaseUnitPcs  = "pcs"
	DefaultBaseUnitGram = "gr"
)

// UseCase mantiene el grafo de unidades: definiciones, factores de
// conversión y conversión de cantidades dentro de una misma familia
// (unidades que comparten unidad base).
type UseCase struct {
	units    repository.UnitRepository
	products repository.ProductRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(units repository.UnitRepository, products repository.ProductRepository) *UseCase {
	return &UseCase{units: units, products: products}
}

// Conversion es el resultado de convertir una cantidad entre unidades.
// Remainder es la pérdida fraccional en unidades base; nunca se trunca en
// silencio: el llamador decide si rechaza o acepta el redondeo hacia abajo.
type Conversion struct {
	Quantity  int64
	Remainder int64
}

// Exact indica si la conversión no perdió fracción.
func (c Conversion) Exact() bool { return c.Remainder == 0 }

// Create registra una unidad nueva. Si baseUnitName está vacío o es igual a
// name, la unidad es base (factor forzado a 1). Si no, la unidad base debe
// existir y ser ella misma una unidad base.
func (uc *UseCase) Create(name, baseUnitName string, conversionFactor int64) (*entity.Unit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}

	existing, err := uc.units.GetByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateName
	}

	isBase := baseUnitName == "" || baseUnitName == name
	if isBase {
		conversionFactor = 1
		baseUnitName = name
	} else {
		if conversionFactor < 1 || conversionFactor > maxConversionFactor {
			return nil, domain.ErrInvalidConversionFactor
		}
		base, err := uc.units.GetByName(baseUnitName)
		if err != nil {
			return nil, err
		}
		if base == nil || !base.IsBaseUnit {
			return nil, domain.ErrInvalidBaseUnit
		}
	}

	now := time.Now()
	unit := &entity.Unit{
		ID:               uuid.New().String(),
		Name:             name,
		BaseUnit:         baseUnitName,
		ConversionFactor: conversionFactor,
		IsBaseUnit:       isBase,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.units.Create(unit); err != nil {
		return nil, err
	}
	return unit, nil
}

// Update modifica nombre y factor de una unidad. Las unidades base no pueden
// cambiar su factor, y no se renombran mientras tengan unidades derivadas
// (las derivadas referencian a su base por nombre).
func (uc *UseCase) Update(id, name string, conversionFactor int64) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ErrInvalidInput
	}

	unit, err := uc.units.GetByID(id)
	if err != nil {
		return err
	}
	if unit == nil {
		return domain.ErrNotFound
	}

	if unit.IsBaseUnit && conversionFactor != 1 {
		return domain.ErrInvalidConversionFactor
	}
	if conversionFactor < 1 || conversionFactor > maxConversionFactor {
		return domain.ErrInvalidConversionFactor
	}

	if name != unit.Name {
		dup, err := uc.units.GetByName(name)
		if err != nil {
			return err
		}
		if dup != nil {
			return domain.ErrDuplicateName
		}
		if unit.IsBaseUnit {
			derived, err := uc.units.CountDerivedOf(unit.Name)
			if err != nil {
				return err
			}
			if derived > 0 {
				return domain.ErrUnitInUse
			}
			unit.BaseUnit = name
		}
		unit.Name = name
	}

	unit.ConversionFactor = conversionFactor
	unit.UpdatedAt = time.Now()
	return uc.units.Update(unit)
}

// Delete elimina una unidad. Falla si algún producto la usa o si otras
// unidades derivan de ella.
func (uc *UseCase) Delete(id string) error {
	unit, err := uc.units.GetByID(id)
	if err != nil {
		return err
	}
	if unit == nil {
		return domain.ErrNotFound
	}

	inUse, err := uc.products.CountByUnit(id)
	if err != nil {
		return err
	}
	if inUse > 0 {
		return domain.ErrUnitInUse
	}

	if unit.IsBaseUnit {
		derived, err := uc.units.CountDerivedOf(unit.Name)
		if err != nil {
			return err
		}
		if derived > 0 {
			return domain.ErrUnitInUse
		}
	}

	return uc.units.Delete(id)
}

// Convert convierte quantity de fromUnitID a toUnitID. Ambas unidades deben
// compartir unidad base. La aritmética es entera: primero se lleva la
// cantidad a unidad base y luego se divide por el factor destino; el residuo
// se reporta en Conversion.Remainder.
func (uc *UseCase) Convert(quantity int64, fromUnitID, toUnitID string) (Conversion, error) {
	if quantity < 0 {
		return Conversion{}, domain.ErrInvalidQuantity
	}

	from, err := uc.units.GetByID(fromUnitID)
	if err != nil {
		return Conversion{}, err
	}
	if from == nil {
		return Conversion{}, domain.ErrNotFound
	}
	to, err := uc.units.GetByID(toUnitID)
	if err != nil {
		return Conversion{}, err
	}
	if to == nil {
		return Conversion{}, domain.ErrNotFound
	}

	if !from.IsCompatibleWith(to) {
		return Conversion{}, domain.ErrIncompatibleUnits
	}

	base := from.ToBase(quantity)
	converted, remainder := to.FromBase(base)
	return Conversion{Quantity: converted, Remainder: remainder}, nil
}

// EnsureDefaults siembra las unidades base pcs y gr cuando la tabla está vacía.
func (uc *UseCase) EnsureDefaults() error {
	existing, err := uc.units.List()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, name := range []string{DefaultBaseUnitPcs, DefaultBaseUnitGram} {
		if _, err := uc.Create(name, name, 1); err != nil {
			return err
		}
	}
	return nil
}

// Get obtiene una unidad por ID.
func (uc *UseCase) Get(id string) (*entity.Unit, error) {
	unit, err := uc.units.GetByID(id)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, domain.ErrNotFound
	}
	return unit, nil
}

// GetByName obtiene una unidad por nombre.
func (uc *UseCase) GetByName(name string) (*entity.Unit, error) {
	unit, err := uc.units.GetByName(name)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, domain.ErrNotFound
	}
	return unit, nil
}

// List devuelve todas las unidades.
func (uc *UseCase) List() ([]*entity.Unit, error) {
	return uc.units.List()
}

// ListBaseUnits devuelve solo las unidades base.
func (uc *UseCase) ListBaseUnits() ([]*entity.Unit, error) {
	return uc.units.ListBaseUnits()
}

// ListByBaseUnit devuelve la familia de una unidad base.
func (uc *UseCase) ListByBaseUnit(baseUnitName string) ([]*entity.Unit, error) {
	return uc.units.ListByBaseUnit(baseUnitName)
}

// Search busca unidades por subcadena de nombre.
func (uc *UseCase) Search(query string, limit int) ([]*entity.Unit, error) {
	return uc.units.Search(query, limit)
}
