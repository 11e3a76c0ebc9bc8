package entity

import "time"

// ProductImage referencia una imagen de producto. El archivo en sí lo maneja
// un almacenamiento externo; aquí solo se persiste la ruta y el orden.
type ProductImage struct {
	ID         string
	ProductID  string
	Path       string
	OrderIndex int
	CreatedAt  time.Time
}
