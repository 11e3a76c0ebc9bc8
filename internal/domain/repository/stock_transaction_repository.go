package repository

import (
	"time"

	"github.com/bdajaya/adminku-core/internal/domain/entity"
)

// UnitStockSummary es la suma con signo de ADD/REMOVE por unidad registrada,
// en términos de esa unidad (sin conversión). Uso: auditoría y reportes.
type UnitStockSummary struct {
	UnitID string
	Total  int64
}

// StockTransactionRepository define el puerto de persistencia del libro de
// stock (DIP). El libro es append-only: no hay Update; Delete existe solo
// para poda por retención y cascada de borrado de producto.
type StockTransactionRepository interface {
	Create(tx *entity.StockTransaction) error
	GetByID(id string) (*entity.StockTransaction, error)
	// ListByProduct pagina en orden cronológico inverso (timestamp DESC, seq DESC).
	ListByProduct(productID string, limit, offset int) ([]*entity.StockTransaction, error)
	ListByTimeRange(from, to time.Time) ([]*entity.StockTransaction, error)
	Recent(limit int) ([]*entity.StockTransaction, error)
	// LatestAdjust devuelve el ADJUST con mayor (timestamp, seq) del producto,
	// o nil si no existe. Seq desempata timestamps idénticos de forma determinista.
	LatestAdjust(productID string) (*entity.StockTransaction, error)
	// SumSignedBaseAfter suma BaseQuantity con signo (+ADD, -REMOVE) de las
	// transacciones estrictamente posteriores al corte (timestamp, seq).
	// ADJUST nunca entra en la suma.
	SumSignedBaseAfter(productID string, afterTs time.Time, afterSeq int64) (int64, error)
	SummaryByUnit(productID string) ([]UnitStockSummary, error)
	CountByProduct(productID string) (int, error)
	DeleteByProduct(productID string) (int64, error)
	// DeleteOlderThan elimina transacciones estrictamente anteriores al corte.
	DeleteOlderThan(cutoff time.Time) (int64, error)
}
