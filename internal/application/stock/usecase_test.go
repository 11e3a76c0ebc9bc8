package stock_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/bdajaya/adminku-core/internal/application/stock"
	"github.com/bdajaya/adminku-core/internal/domain"
	"github.com/bdajaya/adminku-core/internal/domain/entity"
	"github.com/bdajaya/adminku-core/internal/infrastructure/memory"
)

// fixture arma un producto en gramos con su unidad derivada kg.
type fixture struct {
	uc      *stock.UseCase
	store   *memory.Store
	gr      *entity.Unit
	kg      *entity.Unit
	product *entity.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	units := memory.NewUnitRepository(store)
	products := memory.NewProductRepository(store)

	now := time.Now()
	gr := &entity.Unit{
		ID: "u-gr", Name: "gr", BaseUnit: "gr", ConversionFactor: 1,
		IsBaseUnit: true, CreatedAt: now, UpdatedAt: now,
	}
	kg := &entity.Unit{
		ID: "u-kg", Name: "kg", BaseUnit: "gr", ConversionFactor: 1000,
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, units.Create(gr))
	require.NoError(t, units.Create(kg))

	product := &entity.Product{
		ID: "p1", Name: "Harina", Barcode: "BE-00000001",
		CategoryID: "c1", UnitID: gr.ID, Status: entity.ProductStatusActive,
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, products.Create(product))

	uc := stock.NewUseCase(
		memory.NewTxRunner(store),
		memory.NewStockTransactionRepository(store),
		products, units, nil,
	)
	return &fixture{uc: uc, store: store, gr: gr, kg: kg, product: product}
}

func (f *fixture) record(t *testing.T, unitID, txType string, qty int64, ts time.Time) *entity.StockTransaction {
	t.Helper()
	tx, err := f.uc.Record(context.Background(), stock.RecordInput{
		ProductID: f.product.ID,
		UnitID:    unitID,
		Type:      txType,
		Quantity:  qty,
		Timestamp: &ts,
	})
	require.NoError(t, err)
	return tx
}

// ── Derivación ────────────────────────────────────────────────────────────────

func TestDeriveBase_AjusteMasDeltas(t *testing.T) {
	f := newFixture(t)
	t0 := time.Now().Add(-time.Hour)

	// ADJUST 100, ADD 20, REMOVE 5 → 115.
	f.record(t, f.gr.ID, entity.TransactionTypeAdjust, 100, t0)
	f.record(t, f.gr.ID, entity.TransactionTypeAdd, 20, t0.Add(time.Minute))
	f.record(t, f.gr.ID, entity.TransactionTypeRemove, 5, t0.Add(2*time.Minute))

	base, err := f.uc.CurrentStockBase(f.product.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 115, base)
}

func TestDeriveBase_SinAjusteParteDeCero(t *testing.T) {
	f := newFixture(t)
	t0 := time.Now().Add(-time.Hour)

	f.record(t, f.gr.ID, entity.TransactionTypeAdd, 30, t0)
	f.record(t, f.gr.ID, entity.TransactionTypeRemove, 10, t0.Add(time.Minute))

	base, err := f.uc.CurrentStockBase(f.product.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 20, base)
}

func TestDeriveBase_AjusteDescartaLoAnterior(t *testing.T) {
	f := newFixture(t)
	t0 := time.Now().Add(-time.Hour)

	f.record(t, f.gr.ID, entity.TransactionTypeAdd, 500, t0)
	f.record(t, f.gr.ID, entity.TransactionTypeAdjust, 50, t0.Add(time.Minute))
	f.record(t, f.gr.ID, entity.TransactionTypeAdd, 7, t0.Add(2*time.Minute))

	base, err := f.uc.CurrentStockBase(f.product.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 57, base, "un ADJUST reinicia la línea base; lo anterior no cuenta")
}

func TestDeriveBase_EmpateDeTimestampDesempataPorOrdenDeAlta(t *testing.T) {
	f := newFixture(t)
	ts := time.Now().Add(-time.Hour)

	// Dos ADJUST con el mismo timestamp: manda el insertado último.
	f.record(t, f.gr.ID, entity.TransactionTypeAdjust, 100, ts)
	f.record(t, f.gr.ID, entity.TransactionTypeAdjust, 40, ts)
	// ADD con el mismo timestamp pero posterior en orden de alta: sí suma.
	f.record(t, f.gr.ID, entity.TransactionTypeAdd, 3, ts)

	base, err := f.uc.CurrentStockBase(f.product.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 43, base)
}

func TestDeriveBase_Idempotente(t *testing.T) {
	f := newFixture(t)
	t0 := time.Now().Add(-time.Hour)
	f.record(t, f.gr.ID, entity.TransactionTypeAdjust, 100, t0)
	f.record(t, f.gr.ID, entity.TransactionTypeAdd, 20, t0.Add(time.Minute))

	first, err := f.uc.CurrentStockBase(f.product.ID)
	require.NoError(t, err)
	second, err := f.uc.CurrentStockBase(f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second, "recalcular sin asientos nuevos da el mismo valor")
}

func TestDeriveBase_PuedeSerNegativo(t *testing.T) {
	f := newFixture(t)
	t0 := time.Now().Add(-time.Hour)
	f.record(t, f.gr.ID, entity.TransactionTypeRemove, 10, t0)

	base, err := f.uc.CurrentStockBase(f.product.ID)
	require.NoError(t, err)
	assert.EqualValues(t, -10, base, "el libro no bloquea totales negativos")
}

// ── Registro y unidades ───────────────────────────────────────────────────────

func TestRecord_ConvierteAUnidadBase(t *testing.T) {
	f := newFixture(t)
	t0 := time.Now().Add(-time.Hour)

	tx := f.record(t, f.kg.ID, entity.TransactionTypeAdd, 2, t0)
	assert.EqualValues(t, 2, tx.Quantity, "se conserva la cantidad en la unidad registrada")
	assert.EqualValues(t, 2000, tx.BaseQuantity)
	assert.EqualValues(t, 1000, tx.ConversionFactor, "el factor vigente queda congelado en el asiento")

	base, err := f.uc.CurrentStockBase(f.product.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2000, base)
}

func TestRecord_ActualizaCacheDelProducto(t *testing.T) {
	f := newFixture(t)
	t0 := time.Now().Add(-time.Hour)
	f.record(t, f.gr.ID, entity.TransactionTypeAdjust, 250, t0)

	got, err := memory.NewProductRepository(f.store).GetByID(f.product.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 250, got.Stock, "la caché se reescribe en el mismo registro")
}

func TestRecord_UnidadDeOtraFamilia(t *testing.T) {
	f := newFixture(t)
	pcs := &entity.Unit{
		ID: "u-pcs", Name: "pcs", BaseUnit: "pcs", ConversionFactor: 1, IsBaseUnit: true,
	}
	require.NoError(t, memory.NewUnitRepository(f.store).Create(pcs))

	_, err := f.uc.Record(context.Background(), stock.RecordInput{
		ProductID: f.product.ID, UnitID: pcs.ID,
		Type: entity.TransactionTypeAdd, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrIncompatibleUnits,
		"la unidad registrada debe compartir familia con la unidad de catálogo")
}

func TestRecord_CantidadNegativa(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Record(context.Background(), stock.RecordInput{
		ProductID: f.product.ID, UnitID: f.gr.ID,
		Type: entity.TransactionTypeAdd, Quantity: -1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestRecord_TipoInvalido(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Record(context.Background(), stock.RecordInput{
		ProductID: f.product.ID, UnitID: f.gr.ID,
		Type: "TRANSFER", Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecord_ProductoInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Record(context.Background(), stock.RecordInput{
		ProductID: "no-existe", UnitID: f.gr.ID,
		Type: entity.TransactionTypeAdd, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── Lecturas convertidas ──────────────────────────────────────────────────────

func TestCurrentStockInUnit_ConResiduo(t *testing.T) {
	f := newFixture(t)
	t0 := time.Now().Add(-time.Hour)
	f.record(t, f.gr.ID, entity.TransactionTypeAdjust, 2500, t0)

	qty, rem, err := f.uc.CurrentStockInUnit(f.product.ID, f.kg.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, qty)
	assert.EqualValues(t, 500, rem, "el residuo se reporta, nunca se pierde")
}

func TestCurrentStock_EnUnidadDeCatalogo(t *testing.T) {
	f := newFixture(t)
	t0 := time.Now().Add(-time.Hour)
	f.record(t, f.kg.ID, entity.TransactionTypeAdd, 3, t0)

	qty, rem, err := f.uc.CurrentStock(f.product.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3000, qty, "la unidad de catálogo del producto es gr")
	assert.Zero(t, rem)
}

// ── Historial y resumen ───────────────────────────────────────────────────────

func TestHistory_OrdenCronologicoInverso(t *testing.T) {
	f := newFixture(t)
	t0 := time.Now().Add(-time.Hour)
	f.record(t, f.gr.ID, entity.TransactionTypeAdd, 1, t0)
	f.record(t, f.gr.ID, entity.TransactionTypeAdd, 2, t0.Add(time.Minute))
	f.record(t, f.gr.ID, entity.TransactionTypeAdd, 3, t0.Add(2*time.Minute))

	page, err := f.uc.History(f.product.ID, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.EqualValues(t, 3, page[0].Quantity)
	assert.EqualValues(t, 2, page[1].Quantity)

	rest, err := f.uc.History(f.product.ID, 2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.EqualValues(t, 1, rest[0].Quantity)
}

func TestHistory_PaginacionInvalida(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.History(f.product.ID, 0, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.History(f.product.ID, 10, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSummary_PorUnidadRegistradaSinConvertir(t *testing.T) {
	f := newFixture(t)
	t0 := time.Now().Add(-time.Hour)
	f.record(t, f.gr.ID, entity.TransactionTypeAdd, 500, t0)
	f.record(t, f.kg.ID, entity.TransactionTypeAdd, 2, t0.Add(time.Minute))
	f.record(t, f.kg.ID, entity.TransactionTypeRemove, 1, t0.Add(2*time.Minute))
	f.record(t, f.gr.ID, entity.TransactionTypeAdjust, 9999, t0.Add(3*time.Minute))

	summary, err := f.uc.Summary(f.product.ID)
	require.NoError(t, err)
	require.Len(t, summary, 2)
	// Ordenado por unidad; cada total en términos de su propia unidad.
	assert.Equal(t, f.gr.ID, summary[0].UnitID)
	assert.EqualValues(t, 500, summary[0].Total)
	assert.Equal(t, f.kg.ID, summary[1].UnitID)
	assert.EqualValues(t, 1, summary[1].Total)
}

// ── Poda ──────────────────────────────────────────────────────────────────────

func TestPrune_EliminaAnterioresAlCorte(t *testing.T) {
	f := newFixture(t)
	t0 := time.Now().Add(-time.Hour)
	f.record(t, f.gr.ID, entity.TransactionTypeAdd, 1, t0)
	f.record(t, f.gr.ID, entity.TransactionTypeAdd, 2, t0.Add(10*time.Minute))

	deleted, err := f.uc.Prune(t0.Add(5 * time.Minute))
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	history, err := f.uc.History(f.product.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
