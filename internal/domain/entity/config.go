package entity

// Claves de configuración persistidas en la tabla config.
const (
	ConfigKeyMaxCategoryDepth = "max_category_depth"
)

// Config es un par clave/valor de configuración de proceso persistido en el
// almacén. Permite ajustar parámetros (ej. max_category_depth) sin redeploy.
type Config struct {
	Key   string
	Value string
}
