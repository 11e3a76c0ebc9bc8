package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrStoreUnavailable = errors.New("almacén de datos no disponible")

	// Unidades
	ErrDuplicateName           = errors.New("el nombre ya está registrado")
	ErrInvalidBaseUnit         = errors.New("unidad base inválida")
	ErrInvalidConversionFactor = errors.New("factor de conversión inválido")
	ErrIncompatibleUnits       = errors.New("unidades incompatibles")
	ErrUnitInUse               = errors.New("la unidad está en uso")

	// Categorías
	ErrDuplicateSiblingName = errors.New("ya existe una categoría con ese nombre en el mismo nivel")
	ErrMaxDepthExceeded     = errors.New("profundidad máxima de categorías excedida")
	ErrCyclicMove           = errors.New("no se puede mover una categoría dentro de su propio subárbol")
	ErrHasChildren          = errors.New("la categoría tiene subcategorías")
	ErrHasProducts          = errors.New("la categoría tiene productos asociados")

	// Catálogo y stock
	ErrDuplicateBarcode  = errors.New("el código de barras ya existe")
	ErrBrandInUse        = errors.New("la marca está en uso")
	ErrInvalidQuantity   = errors.New("cantidad inválida")
	ErrInvalidStatus     = errors.New("estado de producto inválido")
	ErrInsufficientStock = errors.New("stock insuficiente")
)
