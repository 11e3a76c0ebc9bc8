package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de producto (value object conceptual).
const (
	ProductStatusActive       = "active"
	ProductStatusInactive     = "inactive"
	ProductStatusDiscontinued = "discontinued"
)

// IsValidProductStatus valida que el estado pertenezca al conjunto enumerado.
func IsValidProductStatus(status string) bool {
	switch status {
	case ProductStatusActive, ProductStatusInactive, ProductStatusDiscontinued:
		return true
	}
	return false
}

// Product representa un producto del catálogo. Stock es una caché de lectura
// derivada del libro de stock, expresada en la unidad base de la familia de
// UnitID; solo el motor de stock la escribe.
type Product struct {
	ID          string
	Name        string
	Description string
	Barcode     string // único; generado con prefijo + sufijo numérico si no se provee
	CategoryID  string
	BrandID     string // vacío si no tiene marca
	UnitID      string // unidad de catálogo en la que se denomina el stock
	BuyPrice    decimal.Decimal
	SellPrice   decimal.Decimal
	Margin      int // porcentaje
	Stock       int64
	Status      string // active, inactive, discontinued
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
