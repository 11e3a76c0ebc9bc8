package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/bdajaya/adminku-core/internal/application/stock"
	"github.com/bdajaya/adminku-core/internal/domain"
	"github.com/bdajaya/adminku-core/internal/domain/entity"
	"github.com/bdajaya/adminku-core/internal/domain/repository"
)

// BarcodeConfig parámetros de generación de códigos de barras.
type BarcodeConfig struct {
	Prefix string // prefijo textual, ej. "BE-"
	Digits int    // ancho del sufijo numérico con ceros a la izquierda
}

// UseCase administra la identidad de los productos y aplica las reglas
// referenciales entre entidades: categorías y unidades deben existir, los
// códigos de barras son únicos, y el stock negativo se rechaza aquí (única
// frontera donde se impide; el libro no lo bloquea).
type UseCase struct {
	txRunner   TxRunner
	products   repository.ProductRepository
	categories repository.CategoryRepository
	units      repository.UnitRepository
	brands     repository.BrandRepository
	images     repository.ProductImageRepository
	stock      StockEngine
	barcode    BarcodeConfig
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	units repository.UnitRepository,
	brands repository.BrandRepository,
	images repository.ProductImageRepository,
	stockEngine StockEngine,
	barcode BarcodeConfig,
) *UseCase {
	if barcode.Prefix == "" {
		barcode.Prefix = "BE-"
	}
	if barcode.Digits <= 0 {
		barcode.Digits = 8
	}
	return &UseCase{
		txRunner:   txRunner,
		products:   products,
		categories: categories,
		units:      units,
		brands:     brands,
		images:     images,
		stock:      stockEngine,
		barcode:    barcode,
	}
}

// CreateProductInput entrada para crear un producto. Barcode vacío genera
// uno con el esquema prefijo + sufijo numérico monotónico.
type CreateProductInput struct {
	Name        string
	Description string
	Barcode     string
	CategoryID  string
	BrandID     string // opcional
	UnitID      string
	BuyPrice    decimal.Decimal
	SellPrice   decimal.Decimal
	Margin      int
}

// Create crea un producto validando las referencias cruzadas. El stock
// inicial es 0: toda existencia entra después por el libro de stock.
func (uc *UseCase) Create(in CreateProductInput) (*entity.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.CategoryID == "" || in.UnitID == "" {
		return nil, domain.ErrInvalidInput
	}

	category, err := uc.categories.GetByID(in.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}

	unit, err := uc.units.GetByID(in.UnitID)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, domain.ErrNotFound
	}

	if in.BrandID != "" {
		brand, err := uc.brands.GetByID(in.BrandID)
		if err != nil {
			return nil, err
		}
		if brand == nil {
			return nil, domain.ErrNotFound
		}
	}

	barcode := strings.TrimSpace(in.Barcode)
	if barcode != "" {
		existing, err := uc.products.GetByBarcode(barcode)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicateBarcode
		}
	} else {
		barcode, err = uc.generateBarcode()
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		Barcode:     barcode,
		CategoryID:  in.CategoryID,
		BrandID:     in.BrandID,
		UnitID:      in.UnitID,
		BuyPrice:    in.BuyPrice,
		SellPrice:   in.SellPrice,
		Margin:      in.Margin,
		Stock:       0,
		Status:      entity.ProductStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.products.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// generateBarcode produce el siguiente código con el esquema prefijo +
// entero con ceros a la izquierda, uno más que el mayor sufijo existente.
func (uc *UseCase) generateBarcode() (string, error) {
	max, err := uc.products.MaxBarcodeSuffix(uc.barcode.Prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%0*d", uc.barcode.Prefix, uc.barcode.Digits, max+1), nil
}

// UpdateProductInput entrada para actualizar un producto. La unidad de
// catálogo y el código de barras no se modifican por este camino, y el
// stock solo lo escribe el motor del libro.
type UpdateProductInput struct {
	ID          string
	Name        string
	Description string
	CategoryID  string
	BrandID     string
	BuyPrice    decimal.Decimal
	SellPrice   decimal.Decimal
	Margin      int
}

// Update actualiza los campos de catálogo de un producto.
func (uc *UseCase) Update(in UpdateProductInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.CategoryID == "" {
		return domain.ErrInvalidInput
	}

	product, err := uc.products.GetByID(in.ID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}

	if in.CategoryID != product.CategoryID {
		category, err := uc.categories.GetByID(in.CategoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return domain.ErrNotFound
		}
	}
	if in.BrandID != "" && in.BrandID != product.BrandID {
		brand, err := uc.brands.GetByID(in.BrandID)
		if err != nil {
			return err
		}
		if brand == nil {
			return domain.ErrNotFound
		}
	}

	product.Name = name
	product.Description = in.Description
	product.CategoryID = in.CategoryID
	product.BrandID = in.BrandID
	product.BuyPrice = in.BuyPrice
	product.SellPrice = in.SellPrice
	product.Margin = in.Margin
	product.UpdatedAt = time.Now()
	return uc.products.Update(product)
}

// AdjustStock registra un ADD (delta positivo) o REMOVE (delta negativo,
// se usa la magnitud) a través del libro de stock. Un REMOVE cuya magnitud
// supere el stock derivado se rechaza antes de escribir nada.
func (uc *UseCase) AdjustStock(ctx context.Context, productID, unitID string, delta int64, reason string) (*entity.StockTransaction, error) {
	if delta == 0 {
		return nil, domain.ErrInvalidQuantity
	}

	txType := entity.TransactionTypeAdd
	magnitude := delta
	if delta < 0 {
		txType = entity.TransactionTypeRemove
		magnitude = -delta

		unit, err := uc.units.GetByID(unitID)
		if err != nil {
			return nil, err
		}
		if unit == nil {
			return nil, domain.ErrNotFound
		}
		currentBase, err := uc.stock.CurrentStockBase(productID)
		if err != nil {
			return nil, err
		}
		if unit.ToBase(magnitude) > currentBase {
			return nil, domain.ErrInsufficientStock
		}
	}

	return uc.stock.Record(ctx, stock.RecordInput{
		ProductID: productID,
		UnitID:    unitID,
		Type:      txType,
		Quantity:  magnitude,
		Note:      reason,
	})
}

// SetStatus cambia el estado del producto. Sin restricciones de transición
// más allá del conjunto enumerado.
func (uc *UseCase) SetStatus(productID, status string) error {
	if !entity.IsValidProductStatus(status) {
		return domain.ErrInvalidStatus
	}
	product, err := uc.products.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.products.UpdateStatus(productID, status)
}

// Delete elimina un producto en cascada sobre sus asientos del libro y sus
// filas de imagen, en una sola transacción. Categorías, unidades y marcas
// solo se referencian: nunca se tocan.
func (uc *UseCase) Delete(ctx context.Context, productID string) error {
	product, err := uc.products.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}

	return uc.txRunner.RunCatalog(ctx, func(
		productRepo repository.ProductRepository,
		txRepo repository.StockTransactionRepository,
		imageRepo repository.ProductImageRepository,
	) error {
		if _, err := txRepo.DeleteByProduct(productID); err != nil {
			return err
		}
		if _, err := imageRepo.DeleteByProduct(productID); err != nil {
			return err
		}
		return productRepo.Delete(productID)
	})
}

// Get obtiene un producto por ID.
func (uc *UseCase) Get(productID string) (*entity.Product, error) {
	product, err := uc.products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// GetByBarcode obtiene un producto por código de barras.
func (uc *UseCase) GetByBarcode(barcode string) (*entity.Product, error) {
	product, err := uc.products.GetByBarcode(barcode)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// List devuelve productos con paginación.
func (uc *UseCase) List(limit, offset int) ([]*entity.Product, error) {
	if limit <= 0 || offset < 0 {
		return nil, domain.ErrInvalidInput
	}
	return uc.products.List(limit, offset)
}

// Search busca productos por subcadena de nombre.
func (uc *UseCase) Search(query string, limit int) ([]*entity.Product, error) {
	if limit <= 0 {
		return nil, domain.ErrInvalidInput
	}
	return uc.products.Search(query, limit)
}

// DisplayStock devuelve el stock derivado en unidad base acotado a 0 hacia
// abajo: la cifra nunca se muestra negativa aunque el libro la derive así.
func (uc *UseCase) DisplayStock(productID string) (int64, error) {
	base, err := uc.stock.CurrentStockBase(productID)
	if err != nil {
		return 0, err
	}
	if base < 0 {
		return 0, nil
	}
	return base, nil
}

// ── Marcas ────────────────────────────────────────────────────────────────

// CreateBrand crea una marca con nombre único.
func (uc *UseCase) CreateBrand(name string) (*entity.Brand, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.brands.GetByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateName
	}
	now := time.Now()
	brand := &entity.Brand{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.brands.Create(brand); err != nil {
		return nil, err
	}
	return brand, nil
}

// ListBrands devuelve todas las marcas.
func (uc *UseCase) ListBrands() ([]*entity.Brand, error) {
	return uc.brands.List()
}

// DeleteBrand elimina una marca sin productos asociados.
func (uc *UseCase) DeleteBrand(brandID string) error {
	brand, err := uc.brands.GetByID(brandID)
	if err != nil {
		return err
	}
	if brand == nil {
		return domain.ErrNotFound
	}
	inUse, err := uc.products.CountByBrand(brandID)
	if err != nil {
		return err
	}
	if inUse > 0 {
		return domain.ErrBrandInUse
	}
	return uc.brands.Delete(brandID)
}

// ── Imágenes ──────────────────────────────────────────────────────────────

// AttachImage registra la fila de una imagen al final del orden actual.
// El archivo lo maneja el almacenamiento externo.
func (uc *UseCase) AttachImage(productID, path string) (*entity.ProductImage, error) {
	if path == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	existing, err := uc.images.ListByProduct(productID)
	if err != nil {
		return nil, err
	}
	image := &entity.ProductImage{
		ID:         uuid.New().String(),
		ProductID:  productID,
		Path:       path,
		OrderIndex: len(existing),
		CreatedAt:  time.Now(),
	}
	if err := uc.images.Create(image); err != nil {
		return nil, err
	}
	return image, nil
}

// ListImages devuelve las imágenes de un producto en orden.
func (uc *UseCase) ListImages(productID string) ([]*entity.ProductImage, error) {
	return uc.images.ListByProduct(productID)
}

// RemoveImage elimina la fila de una imagen.
func (uc *UseCase) RemoveImage(imageID string) error {
	return uc.images.Delete(imageID)
}
