package units_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/bdajaya/adminku-core/internal/application/units"
	"github.com/bdajaya/adminku-core/internal/domain"
	"github.com/bdajaya/adminku-core/internal/infrastructure/memory"
)

func newUnitUC() *units.UseCase {
	store := memory.NewStore()
	return units.NewUseCase(memory.NewUnitRepository(store), memory.NewProductRepository(store))
}

// ── Alta de unidades ──────────────────────────────────────────────────────────

func TestCreate_UnidadBase(t *testing.T) {
	uc := newUnitUC()

	u, err := uc.Create("gr", "", 0)
	require.NoError(t, err)
	assert.True(t, u.IsBaseUnit, "sin unidad base declarada, la unidad es base")
	assert.Equal(t, "gr", u.BaseUnit, "una unidad base se referencia a sí misma")
	assert.EqualValues(t, 1, u.ConversionFactor, "el factor de una unidad base siempre es 1")
}

func TestCreate_BaseIgualANombre(t *testing.T) {
	uc := newUnitUC()

	u, err := uc.Create("pcs", "pcs", 12)
	require.NoError(t, err)
	assert.True(t, u.IsBaseUnit)
	assert.EqualValues(t, 1, u.ConversionFactor, "el factor declarado se ignora para unidades base")
}

func TestCreate_UnidadDerivada(t *testing.T) {
	uc := newUnitUC()
	_, err := uc.Create("gr", "", 0)
	require.NoError(t, err)

	kg, err := uc.Create("kg", "gr", 1000)
	require.NoError(t, err)
	assert.False(t, kg.IsBaseUnit)
	assert.Equal(t, "gr", kg.BaseUnit)
	assert.EqualValues(t, 1000, kg.ConversionFactor)
}

func TestCreate_NombreDuplicado(t *testing.T) {
	uc := newUnitUC()
	_, err := uc.Create("gr", "", 0)
	require.NoError(t, err)

	_, err = uc.Create("gr", "", 0)
	assert.ErrorIs(t, err, domain.ErrDuplicateName)
}

func TestCreate_BaseInexistente(t *testing.T) {
	uc := newUnitUC()

	_, err := uc.Create("kg", "gr", 1000)
	assert.ErrorIs(t, err, domain.ErrInvalidBaseUnit, "la unidad base debe existir antes")
}

func TestCreate_BaseNoEsBase(t *testing.T) {
	uc := newUnitUC()
	_, err := uc.Create("gr", "", 0)
	require.NoError(t, err)
	_, err = uc.Create("kg", "gr", 1000)
	require.NoError(t, err)

	// kg existe pero no es unidad base: no se admite derivar de una derivada.
	_, err = uc.Create("ton", "kg", 1000)
	assert.ErrorIs(t, err, domain.ErrInvalidBaseUnit)
}

func TestCreate_FactorInvalido(t *testing.T) {
	uc := newUnitUC()
	_, err := uc.Create("gr", "", 0)
	require.NoError(t, err)

	_, err = uc.Create("kg", "gr", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidConversionFactor)

	_, err = uc.Create("mg", "gr", 1_000_001)
	assert.ErrorIs(t, err, domain.ErrInvalidConversionFactor, "el factor tiene tope de 1 millón")
}

// ── Conversión ────────────────────────────────────────────────────────────────

func TestConvert_EjemploKilogramos(t *testing.T) {
	uc := newUnitUC()
	gr, err := uc.Create("gr", "", 0)
	require.NoError(t, err)
	kg, err := uc.Create("kg", "gr", 1000)
	require.NoError(t, err)

	// 2500 gr = 2 kg con residuo 500 gr.
	conv, err := uc.Convert(2500, gr.ID, kg.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, conv.Quantity)
	assert.EqualValues(t, 500, conv.Remainder, "el residuo nunca se trunca en silencio")
	assert.False(t, conv.Exact())

	// 2 kg = 2000 gr exactos.
	conv, err = uc.Convert(2, kg.ID, gr.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2000, conv.Quantity)
	assert.True(t, conv.Exact())
}

func TestConvert_IdaYVueltaConservaBase(t *testing.T) {
	uc := newUnitUC()
	gr, err := uc.Create("gr", "", 0)
	require.NoError(t, err)
	kg, err := uc.Create("kg", "gr", 1000)
	require.NoError(t, err)

	// convertido*factor + residuo reconstruye la cantidad base original.
	const base = 2500
	conv, err := uc.Convert(base, gr.ID, kg.ID)
	require.NoError(t, err)
	assert.EqualValues(t, base, conv.Quantity*1000+conv.Remainder)
}

func TestConvert_FamiliasDistintas(t *testing.T) {
	uc := newUnitUC()
	gr, err := uc.Create("gr", "", 0)
	require.NoError(t, err)
	pcs, err := uc.Create("pcs", "", 0)
	require.NoError(t, err)

	_, err = uc.Convert(10, gr.ID, pcs.ID)
	assert.ErrorIs(t, err, domain.ErrIncompatibleUnits,
		"unidades con distinta base no convierten entre sí")
}

func TestConvert_CantidadNegativa(t *testing.T) {
	uc := newUnitUC()
	gr, err := uc.Create("gr", "", 0)
	require.NoError(t, err)

	_, err = uc.Convert(-1, gr.ID, gr.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

// ── Actualización y borrado ───────────────────────────────────────────────────

func TestUpdate_BaseNoCambiaFactor(t *testing.T) {
	uc := newUnitUC()
	gr, err := uc.Create("gr", "", 0)
	require.NoError(t, err)

	err = uc.Update(gr.ID, "gr", 10)
	assert.ErrorIs(t, err, domain.ErrInvalidConversionFactor)
}

func TestUpdate_RenombrarBaseConDerivadas(t *testing.T) {
	uc := newUnitUC()
	gr, err := uc.Create("gr", "", 0)
	require.NoError(t, err)
	_, err = uc.Create("kg", "gr", 1000)
	require.NoError(t, err)

	// Las derivadas referencian a su base por nombre: renombrar rompería el vínculo.
	err = uc.Update(gr.ID, "gramo", 1)
	assert.ErrorIs(t, err, domain.ErrUnitInUse)
}

func TestUpdate_FactorDeDerivada(t *testing.T) {
	uc := newUnitUC()
	_, err := uc.Create("gr", "", 0)
	require.NoError(t, err)
	kg, err := uc.Create("kg", "gr", 1000)
	require.NoError(t, err)

	require.NoError(t, uc.Update(kg.ID, "kg", 500))
	updated, err := uc.Get(kg.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 500, updated.ConversionFactor)
}

func TestDelete_BaseConDerivadas(t *testing.T) {
	uc := newUnitUC()
	gr, err := uc.Create("gr", "", 0)
	require.NoError(t, err)
	_, err = uc.Create("kg", "gr", 1000)
	require.NoError(t, err)

	err = uc.Delete(gr.ID)
	assert.ErrorIs(t, err, domain.ErrUnitInUse)
}

func TestDelete_SinReferencias(t *testing.T) {
	uc := newUnitUC()
	gr, err := uc.Create("gr", "", 0)
	require.NoError(t, err)

	require.NoError(t, uc.Delete(gr.ID))
	_, err = uc.Get(gr.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── Siembra por defecto ───────────────────────────────────────────────────────

func TestEnsureDefaults_SiembraUnaVez(t *testing.T) {
	uc := newUnitUC()

	require.NoError(t, uc.EnsureDefaults())
	list, err := uc.List()
	require.NoError(t, err)
	require.Len(t, list, 2, "instalación vacía siembra pcs y gr")

	// Segunda llamada no duplica.
	require.NoError(t, uc.EnsureDefaults())
	list, err = uc.List()
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestEnsureDefaults_NoTocaAlmacenPoblado(t *testing.T) {
	uc := newUnitUC()
	_, err := uc.Create("lt", "", 0)
	require.NoError(t, err)

	require.NoError(t, uc.EnsureDefaults())
	list, err := uc.List()
	require.NoError(t, err)
	assert.Len(t, list, 1, "con unidades existentes no se siembra nada")
}
