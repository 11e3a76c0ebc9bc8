package entity

import "time"

// Category representa una categoría de productos en un árbol de profundidad
// acotada. ParentID vacío indica una categoría raíz (nivel 0).
type Category struct {
	ID          string
	ParentID    string // vacío si es raíz
	Level       int    // nivel del padre + 1; 0 para raíces
	Name        string // único entre hermanas (mismo padre)
	Description string
	HasChildren bool // mantenido de forma eager en altas/bajas de hijas
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsRoot indica si la categoría no tiene padre.
func (c *Category) IsRoot() bool {
	return c.ParentID == ""
}
