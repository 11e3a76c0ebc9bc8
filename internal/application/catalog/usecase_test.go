package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/bdajaya/adminku-core/internal/application/catalog"
	"github.com/bdajaya/adminku-core/internal/application/stock"
	"github.com/bdajaya/adminku-core/internal/domain"
	"github.com/bdajaya/adminku-core/internal/domain/entity"
	"github.com/bdajaya/adminku-core/internal/infrastructure/memory"
)

// fixture arma el catálogo completo con una categoría y la unidad pcs.
type fixture struct {
	uc       *catalog.UseCase
	stockUC  *stock.UseCase
	store    *memory.Store
	pcs      *entity.Unit
	category *entity.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	units := memory.NewUnitRepository(store)
	cats := memory.NewCategoryRepository(store)
	products := memory.NewProductRepository(store)
	txRunner := memory.NewTxRunner(store)

	now := time.Now()
	pcs := &entity.Unit{
		ID: "u-pcs", Name: "pcs", BaseUnit: "pcs", ConversionFactor: 1,
		IsBaseUnit: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, units.Create(pcs))

	category := &entity.Category{
		ID: "c1", Name: "Bebidas", Level: 0, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, cats.Create(category))

	stockUC := stock.NewUseCase(
		txRunner, memory.NewStockTransactionRepository(store), products, units, nil,
	)
	uc := catalog.NewUseCase(
		txRunner, products, cats, units,
		memory.NewBrandRepository(store), memory.NewProductImageRepository(store),
		stockUC, catalog.BarcodeConfig{Prefix: "BE-", Digits: 8},
	)
	return &fixture{uc: uc, stockUC: stockUC, store: store, pcs: pcs, category: category}
}

func (f *fixture) create(t *testing.T, name, barcode string) *entity.Product {
	t.Helper()
	p, err := f.uc.Create(catalog.CreateProductInput{
		Name:       name,
		Barcode:    barcode,
		CategoryID: f.category.ID,
		UnitID:     f.pcs.ID,
		BuyPrice:   decimal.NewFromInt(100),
		SellPrice:  decimal.NewFromInt(150),
	})
	require.NoError(t, err)
	return p
}

// ── Alta de productos ─────────────────────────────────────────────────────────

func TestCreate_EstadoInicialYStockCero(t *testing.T) {
	f := newFixture(t)

	p := f.create(t, "Cola", "")
	assert.Equal(t, entity.ProductStatusActive, p.Status)
	assert.Zero(t, p.Stock, "toda existencia entra después por el libro")
}

func TestCreate_GeneraBarcodeMonotonico(t *testing.T) {
	f := newFixture(t)

	p1 := f.create(t, "Cola", "")
	p2 := f.create(t, "Jugo", "")
	assert.Equal(t, "BE-00000001", p1.Barcode)
	assert.Equal(t, "BE-00000002", p2.Barcode)
}

func TestCreate_GeneradorSaltaSufijosManuales(t *testing.T) {
	f := newFixture(t)

	f.create(t, "Cola", "BE-00000041")
	p := f.create(t, "Jugo", "")
	assert.Equal(t, "BE-00000042", p.Barcode,
		"el generador continúa desde el mayor sufijo existente")
}

func TestCreate_BarcodeDuplicado(t *testing.T) {
	f := newFixture(t)
	f.create(t, "Cola", "BE-00000001")

	_, err := f.uc.Create(catalog.CreateProductInput{
		Name: "Jugo", Barcode: "BE-00000001",
		CategoryID: f.category.ID, UnitID: f.pcs.ID,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateBarcode)
}

func TestCreate_CategoriaInexistente(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Create(catalog.CreateProductInput{
		Name: "Cola", CategoryID: "no-existe", UnitID: f.pcs.ID,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_UnidadInexistente(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Create(catalog.CreateProductInput{
		Name: "Cola", CategoryID: f.category.ID, UnitID: "no-existe",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_MarcaInexistente(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Create(catalog.CreateProductInput{
		Name: "Cola", CategoryID: f.category.ID, UnitID: f.pcs.ID,
		BrandID: "no-existe",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── Ajustes de stock ──────────────────────────────────────────────────────────

func TestAdjustStock_AltaYBaja(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, "Cola", "")

	_, err := f.uc.AdjustStock(context.Background(), p.ID, f.pcs.ID, 10, "compra")
	require.NoError(t, err)
	tx, err := f.uc.AdjustStock(context.Background(), p.ID, f.pcs.ID, -4, "venta")
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionTypeRemove, tx.Type)
	assert.EqualValues(t, 4, tx.Quantity, "el REMOVE registra la magnitud, no el signo")

	display, err := f.uc.DisplayStock(p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 6, display)
}

func TestAdjustStock_StockInsuficiente(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, "Cola", "")
	_, err := f.uc.AdjustStock(context.Background(), p.ID, f.pcs.ID, 5, "compra")
	require.NoError(t, err)

	_, err = f.uc.AdjustStock(context.Background(), p.ID, f.pcs.ID, -6, "venta")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// El rechazo no escribió nada: ni asiento ni caché.
	display, err := f.uc.DisplayStock(p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 5, display)
	history, err := f.stockUC.History(p.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestAdjustStock_DeltaCero(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, "Cola", "")

	_, err := f.uc.AdjustStock(context.Background(), p.ID, f.pcs.ID, 0, "")
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestDisplayStock_NuncaNegativo(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, "Cola", "")

	// Asiento directo por el libro: el libro sí admite totales negativos.
	_, err := f.stockUC.Record(context.Background(), stock.RecordInput{
		ProductID: p.ID, UnitID: f.pcs.ID,
		Type: entity.TransactionTypeRemove, Quantity: 3,
	})
	require.NoError(t, err)

	base, err := f.stockUC.CurrentStockBase(p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, -3, base)

	display, err := f.uc.DisplayStock(p.ID)
	require.NoError(t, err)
	assert.Zero(t, display, "la cifra mostrada se acota en 0")
}

// ── Actualización y estado ────────────────────────────────────────────────────

func TestUpdate_NoTocaBarcodeNiStock(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, "Cola", "")
	_, err := f.uc.AdjustStock(context.Background(), p.ID, f.pcs.ID, 7, "")
	require.NoError(t, err)

	require.NoError(t, f.uc.Update(catalog.UpdateProductInput{
		ID: p.ID, Name: "Cola Zero", CategoryID: f.category.ID,
		BuyPrice: decimal.NewFromInt(90), SellPrice: decimal.NewFromInt(140),
	}))

	got, err := f.uc.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cola Zero", got.Name)
	assert.Equal(t, p.Barcode, got.Barcode)
	assert.EqualValues(t, 7, got.Stock)
}

func TestSetStatus_EstadoInvalido(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, "Cola", "")

	err := f.uc.SetStatus(p.ID, "archived")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	require.NoError(t, f.uc.SetStatus(p.ID, entity.ProductStatusDiscontinued))
	got, err := f.uc.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ProductStatusDiscontinued, got.Status)
}

// ── Borrado en cascada ────────────────────────────────────────────────────────

func TestDelete_CascadaSobreLibroEImagenes(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, "Cola", "")
	_, err := f.uc.AdjustStock(context.Background(), p.ID, f.pcs.ID, 5, "")
	require.NoError(t, err)
	_, err = f.uc.AttachImage(p.ID, "images/cola.png")
	require.NoError(t, err)

	require.NoError(t, f.uc.Delete(context.Background(), p.ID))

	_, err = f.uc.Get(p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	history, err := f.stockUC.History(p.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, history)
	images, err := f.uc.ListImages(p.ID)
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestDelete_NoTocaCategoriaNiUnidad(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, "Cola", "")

	require.NoError(t, f.uc.Delete(context.Background(), p.ID))

	cat, err := memory.NewCategoryRepository(f.store).GetByID(f.category.ID)
	require.NoError(t, err)
	assert.NotNil(t, cat)
	unit, err := memory.NewUnitRepository(f.store).GetByID(f.pcs.ID)
	require.NoError(t, err)
	assert.NotNil(t, unit)
}

// ── Marcas ────────────────────────────────────────────────────────────────────

func TestBrand_CicloCompleto(t *testing.T) {
	f := newFixture(t)

	brand, err := f.uc.CreateBrand("Acme")
	require.NoError(t, err)

	_, err = f.uc.CreateBrand("acme")
	assert.ErrorIs(t, err, domain.ErrDuplicateName,
		"el nombre de marca no distingue mayúsculas")

	list, err := f.uc.ListBrands()
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, f.uc.DeleteBrand(brand.ID))
	list, err = f.uc.ListBrands()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDeleteBrand_ConProductos(t *testing.T) {
	f := newFixture(t)
	brand, err := f.uc.CreateBrand("Acme")
	require.NoError(t, err)

	_, err = f.uc.Create(catalog.CreateProductInput{
		Name: "Cola", CategoryID: f.category.ID, UnitID: f.pcs.ID, BrandID: brand.ID,
	})
	require.NoError(t, err)

	err = f.uc.DeleteBrand(brand.ID)
	assert.ErrorIs(t, err, domain.ErrBrandInUse)
}

// ── Imágenes ──────────────────────────────────────────────────────────────────

func TestAttachImage_OrdenIncremental(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, "Cola", "")

	first, err := f.uc.AttachImage(p.ID, "images/a.png")
	require.NoError(t, err)
	second, err := f.uc.AttachImage(p.ID, "images/b.png")
	require.NoError(t, err)
	assert.Equal(t, 0, first.OrderIndex)
	assert.Equal(t, 1, second.OrderIndex)

	images, err := f.uc.ListImages(p.ID)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "images/a.png", images[0].Path)
}

func TestAttachImage_ProductoInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.AttachImage("no-existe", "images/a.png")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
