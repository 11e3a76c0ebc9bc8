package entity

import "time"

// Unit representa una unidad de medida. Las unidades base tienen factor 1 y
// son su propia referencia; las derivadas convierten a través de su unidad base.
type Unit struct {
	ID               string
	Name             string // único
	BaseUnit         string // nombre de la unidad base; igual a Name si es base
	ConversionFactor int64  // 1 para unidades base, entero positivo para derivadas
	IsBaseUnit       bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ToBase convierte una cantidad expresada en esta unidad a la unidad base.
func (u *Unit) ToBase(quantity int64) int64 {
	return quantity * u.ConversionFactor
}

// FromBase convierte una cantidad en unidad base a esta unidad.
// Devuelve el cociente entero y el residuo en unidad base.
func (u *Unit) FromBase(baseQuantity int64) (int64, int64) {
	if u.ConversionFactor == 0 {
		return 0, baseQuantity
	}
	return baseQuantity / u.ConversionFactor, baseQuantity % u.ConversionFactor
}

// IsCompatibleWith indica si ambas unidades comparten la misma unidad base.
func (u *Unit) IsCompatibleWith(other *Unit) bool {
	return other != nil && u.BaseUnit == other.BaseUnit
}
