package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/bdajaya/adminku-core/internal/domain"
	"github.com/bdajaya/adminku-core/internal/domain/entity"
	"github.com/bdajaya/adminku-core/internal/domain/repository"
	"github.com/bdajaya/adminku-core/pkg/logger"
)

// UseCase es el motor del libro de stock: registra asientos inmutables y
// deriva el stock actual de cada producto. La cantidad vigente no es un
// contador mutable sino una reconstrucción: línea base del último ADJUST
// más el delta de ADD/REMOVE posteriores, todo en unidad base.
type UseCase struct {
	txRunner     TxRunner
	transactions repository.StockTransactionRepository
	products     repository.ProductRepository
	units        repository.UnitRepository
	log          *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	transactions repository.StockTransactionRepository,
	products repository.ProductRepository,
	units repository.UnitRepository,
	log *logger.Logger,
) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		txRunner:     txRunner,
		transactions: transactions,
		products:     products,
		units:        units,
		log:          log,
	}
}

// RecordInput entrada para registrar un asiento de stock.
// Timestamp nil usa la hora actual.
type RecordInput struct {
	ProductID string
	UnitID    string
	Type      string // ADD, REMOVE, ADJUST
	Quantity  int64  // magnitud no negativa; el signo lo implica el tipo
	Timestamp *time.Time
	Note      string
}

// Record agrega un asiento al libro y, en la misma transacción de BD,
// recalcula y reescribe la caché de stock del producto: este es el único
// camino de escritura de esa caché. La fila del producto se bloquea
// (SELECT FOR UPDATE) para serializar registros concurrentes del mismo
// producto; productos distintos no se ordenan entre sí.
func (uc *UseCase) Record(ctx context.Context, input RecordInput) (*entity.StockTransaction, error) {
	if input.Quantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if !entity.IsValidTransactionType(input.Type) {
		return nil, domain.ErrInvalidInput
	}

	unit, err := uc.units.GetByID(input.UnitID)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, domain.ErrNotFound
	}

	ts := time.Now()
	if input.Timestamp != nil {
		ts = *input.Timestamp
	}

	transaction := &entity.StockTransaction{
		ID:               uuid.New().String(),
		ProductID:        input.ProductID,
		UnitID:           input.UnitID,
		Type:             input.Type,
		Quantity:         input.Quantity,
		BaseQuantity:     unit.ToBase(input.Quantity),
		ConversionFactor: unit.ConversionFactor,
		Timestamp:        ts,
		Note:             input.Note,
	}

	err = uc.txRunner.Run(ctx, func(
		txRepo repository.StockTransactionRepository,
		productRepo repository.ProductRepository,
	) error {
		product, err := productRepo.GetForUpdate(input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		catalogUnit, err := uc.units.GetByID(product.UnitID)
		if err != nil {
			return err
		}
		if catalogUnit == nil || !unit.IsCompatibleWith(catalogUnit) {
			return domain.ErrIncompatibleUnits
		}

		if err := txRepo.Create(transaction); err != nil {
			return err
		}

		currentBase, err := deriveBase(txRepo, input.ProductID)
		if err != nil {
			return err
		}
		return productRepo.UpdateStock(input.ProductID, currentBase)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("product_id", input.ProductID).
		Str("type", input.Type).
		Int64("quantity", input.Quantity).
		Str("unit", unit.Name).
		Msg("asiento de stock registrado")

	return transaction, nil
}

// deriveBase reconstruye el stock actual en unidad base:
//  1. línea base = BaseQuantity del ADJUST con mayor (timestamp, seq);
//     seq desempata timestamps idénticos de forma determinista.
//  2. delta = suma con signo de ADD/REMOVE estrictamente posteriores al corte.
//  3. actual = línea base + delta. ADJUST nunca se suma al delta: es un
//     punto de reinicio absoluto.
//
// El resultado puede ser negativo; el libro no lo impide. Esa política se
// aplica en el catálogo, no aquí.
func deriveBase(txRepo repository.StockTransactionRepository, productID string) (int64, error) {
	var baseline int64
	var cutoffTs time.Time // cero = principio de los tiempos
	var cutoffSeq int64

	adjust, err := txRepo.LatestAdjust(productID)
	if err != nil {
		return 0, err
	}
	if adjust != nil {
		baseline = adjust.BaseQuantity
		cutoffTs = adjust.Timestamp
		cutoffSeq = adjust.Seq
	}

	delta, err := txRepo.SumSignedBaseAfter(productID, cutoffTs, cutoffSeq)
	if err != nil {
		return 0, err
	}
	return baseline + delta, nil
}

// CurrentStockBase devuelve el stock derivado en unidad base. Recalcular dos
// veces sin un Record intermedio produce el mismo valor.
func (uc *UseCase) CurrentStockBase(productID string) (int64, error) {
	product, err := uc.products.GetByID(productID)
	if err != nil {
		return 0, err
	}
	if product == nil {
		return 0, domain.ErrNotFound
	}
	return deriveBase(uc.transactions, productID)
}

// CurrentStock devuelve el stock derivado denominado en la unidad de
// catálogo del producto, junto con el residuo en unidad base que no alcanza
// una unidad de catálogo completa.
func (uc *UseCase) CurrentStock(productID string) (quantity, remainder int64, err error) {
	product, err := uc.products.GetByID(productID)
	if err != nil {
		return 0, 0, err
	}
	if product == nil {
		return 0, 0, domain.ErrNotFound
	}
	return uc.stockInUnit(productID, product.UnitID)
}

// CurrentStockInUnit devuelve el stock derivado convertido a una unidad
// arbitraria de la misma familia.
func (uc *UseCase) CurrentStockInUnit(productID, unitID string) (quantity, remainder int64, err error) {
	product, err := uc.products.GetByID(productID)
	if err != nil {
		return 0, 0, err
	}
	if product == nil {
		return 0, 0, domain.ErrNotFound
	}

	catalogUnit, err := uc.units.GetByID(product.UnitID)
	if err != nil {
		return 0, 0, err
	}
	target, err := uc.units.GetByID(unitID)
	if err != nil {
		return 0, 0, err
	}
	if catalogUnit == nil || target == nil {
		return 0, 0, domain.ErrNotFound
	}
	if !catalogUnit.IsCompatibleWith(target) {
		return 0, 0, domain.ErrIncompatibleUnits
	}
	return uc.stockInUnit(productID, unitID)
}

func (uc *UseCase) stockInUnit(productID, unitID string) (int64, int64, error) {
	unit, err := uc.units.GetByID(unitID)
	if err != nil {
		return 0, 0, err
	}
	if unit == nil {
		return 0, 0, domain.ErrNotFound
	}
	base, err := deriveBase(uc.transactions, productID)
	if err != nil {
		return 0, 0, err
	}
	quantity, remainder := unit.FromBase(base)
	return quantity, remainder, nil
}

// History devuelve una página de asientos en orden cronológico inverso.
func (uc *UseCase) History(productID string, limit, offset int) ([]*entity.StockTransaction, error) {
	if limit <= 0 || offset < 0 {
		return nil, domain.ErrInvalidInput
	}
	return uc.transactions.ListByProduct(productID, limit, offset)
}

// Summary agrupa ADD/REMOVE por unidad registrada y suma cantidades con
// signo en términos de cada unidad, sin conversión. Uso: auditoría; es una
// vista distinta del stock actual convertido.
func (uc *UseCase) Summary(productID string) ([]repository.UnitStockSummary, error) {
	return uc.transactions.SummaryByUnit(productID)
}

// Recent devuelve los últimos asientos de todos los productos.
func (uc *UseCase) Recent(limit int) ([]*entity.StockTransaction, error) {
	if limit <= 0 {
		return nil, domain.ErrInvalidInput
	}
	return uc.transactions.Recent(limit)
}

// ListByTimeRange devuelve los asientos dentro de un rango de tiempo.
func (uc *UseCase) ListByTimeRange(from, to time.Time) ([]*entity.StockTransaction, error) {
	return uc.transactions.ListByTimeRange(from, to)
}

// Prune elimina asientos estrictamente anteriores al corte. El llamador debe
// asegurarse de no podar un ADJUST que siga sirviendo de línea base: este
// componente no lo valida (riesgo operativo documentado de la retención).
func (uc *UseCase) Prune(olderThan time.Time) (int64, error) {
	deleted, err := uc.transactions.DeleteOlderThan(olderThan)
	if err != nil {
		return 0, err
	}
	uc.log.Info().
		Time("cutoff", olderThan).
		Int64("deleted", deleted).
		Msg("poda de asientos de stock")
	return deleted, nil
}
