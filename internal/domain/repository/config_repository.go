package repository

import "github.com/bdajaya/adminku-core/internal/domain/entity"

// ConfigRepository define el puerto para los pares clave/valor de
// configuración persistidos (ej. max_category_depth).
type ConfigRepository interface {
	Get(key string) (*entity.Config, error)
	Set(key, value string) error
}
