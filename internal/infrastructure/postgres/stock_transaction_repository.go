package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/bdajaya/adminku-core/internal/domain/entity"
	"github.com/bdajaya/adminku-core/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

const stockTxColumns = `id, seq, product_id, unit_id, type, quantity, base_quantity,
	conversion_factor, timestamp, note`

// StockTransactionRepo implementación del puerto StockTransactionRepository
// sobre PostgreSQL. Las escrituras del libro siempre corren dentro de una tx
// (ver TxRunner), por eso el Querier puede ser pool o tx.
type StockTransactionRepo struct {
	q Querier
}

// NewStockTransactionRepository construye el adaptador del libro de stock.
func NewStockTransactionRepository(q Querier) *StockTransactionRepo {
	return &StockTransactionRepo{q: q}
}

// Create inserta una transacción. El seq lo asigna la base (bigserial) y se
// escribe de vuelta en la entidad: desempata timestamps idénticos.
func (r *StockTransactionRepo) Create(tx *entity.StockTransaction) error {
	query := `
		INSERT INTO stock_transactions (id, product_id, unit_id, type, quantity,
			base_quantity, conversion_factor, timestamp, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING seq`
	err := r.q.QueryRow(context.Background(), query,
		tx.ID, tx.ProductID, tx.UnitID, tx.Type, tx.Quantity,
		tx.BaseQuantity, tx.ConversionFactor, tx.Timestamp, tx.Note,
	).Scan(&tx.Seq)
	if err != nil {
		return fmt.Errorf("insert stock transaction: %w", err)
	}
	return nil
}

func (r *StockTransactionRepo) scanOne(row pgx.Row, op string) (*entity.StockTransaction, error) {
	var t entity.StockTransaction
	err := row.Scan(
		&t.ID, &t.Seq, &t.ProductID, &t.UnitID, &t.Type, &t.Quantity,
		&t.BaseQuantity, &t.ConversionFactor, &t.Timestamp, &t.Note,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &t, nil
}

// GetByID obtiene una transacción por ID.
func (r *StockTransactionRepo) GetByID(id string) (*entity.StockTransaction, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+stockTxColumns+` FROM stock_transactions WHERE id = $1`, id)
	return r.scanOne(row, "get stock transaction")
}

func (r *StockTransactionRepo) list(query string, args ...any) ([]*entity.StockTransaction, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockTransaction
	for rows.Next() {
		var t entity.StockTransaction
		if err := rows.Scan(
			&t.ID, &t.Seq, &t.ProductID, &t.UnitID, &t.Type, &t.Quantity,
			&t.BaseQuantity, &t.ConversionFactor, &t.Timestamp, &t.Note,
		); err != nil {
			return nil, fmt.Errorf("scan stock transaction: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// ListByProduct pagina el historial del producto, más recientes primero.
func (r *StockTransactionRepo) ListByProduct(productID string, limit, offset int) ([]*entity.StockTransaction, error) {
	return r.list(
		`SELECT `+stockTxColumns+` FROM stock_transactions
		 WHERE product_id = $1 ORDER BY timestamp DESC, seq DESC LIMIT $2 OFFSET $3`,
		productID, limit, offset,
	)
}

// ListByTimeRange devuelve transacciones con timestamp en [from, to], cronológicas.
func (r *StockTransactionRepo) ListByTimeRange(from, to time.Time) ([]*entity.StockTransaction, error) {
	return r.list(
		`SELECT `+stockTxColumns+` FROM stock_transactions
		 WHERE timestamp >= $1 AND timestamp <= $2 ORDER BY timestamp, seq`,
		from, to,
	)
}

// Recent devuelve las últimas transacciones de todos los productos.
func (r *StockTransactionRepo) Recent(limit int) ([]*entity.StockTransaction, error) {
	return r.list(
		`SELECT `+stockTxColumns+` FROM stock_transactions
		 ORDER BY timestamp DESC, seq DESC LIMIT $1`,
		limit,
	)
}

// LatestAdjust devuelve el ADJUST con mayor (timestamp, seq) del producto.
func (r *StockTransactionRepo) LatestAdjust(productID string) (*entity.StockTransaction, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+stockTxColumns+` FROM stock_transactions
		 WHERE product_id = $1 AND type = $2
		 ORDER BY timestamp DESC, seq DESC LIMIT 1`,
		productID, entity.TransactionTypeAdjust,
	)
	return r.scanOne(row, "get latest adjust")
}

// SumSignedBaseAfter suma BaseQuantity con signo sobre las transacciones
// estrictamente posteriores al corte (timestamp, seq). ADJUST queda fuera.
func (r *StockTransactionRepo) SumSignedBaseAfter(productID string, afterTs time.Time, afterSeq int64) (int64, error) {
	var sum int64
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(CASE type
			WHEN $4 THEN base_quantity
			WHEN $5 THEN -base_quantity
			ELSE 0 END), 0)
		 FROM stock_transactions
		 WHERE product_id = $1
		   AND (timestamp > $2 OR (timestamp = $2 AND seq > $3))`,
		productID, afterTs, afterSeq,
		entity.TransactionTypeAdd, entity.TransactionTypeRemove,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum signed base: %w", err)
	}
	return sum, nil
}

// SummaryByUnit agrupa la suma con signo por unidad registrada, sin convertir.
func (r *StockTransactionRepo) SummaryByUnit(productID string) ([]repository.UnitStockSummary, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT unit_id, COALESCE(SUM(CASE type
			WHEN $2 THEN quantity
			WHEN $3 THEN -quantity
			ELSE 0 END), 0)
		 FROM stock_transactions
		 WHERE product_id = $1 AND type <> $4
		 GROUP BY unit_id ORDER BY unit_id`,
		productID,
		entity.TransactionTypeAdd, entity.TransactionTypeRemove, entity.TransactionTypeAdjust,
	)
	if err != nil {
		return nil, fmt.Errorf("summary by unit: %w", err)
	}
	defer rows.Close()
	var list []repository.UnitStockSummary
	for rows.Next() {
		var s repository.UnitStockSummary
		if err := rows.Scan(&s.UnitID, &s.Total); err != nil {
			return nil, fmt.Errorf("scan unit summary: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// CountByProduct cuenta las transacciones de un producto.
func (r *StockTransactionRepo) CountByProduct(productID string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM stock_transactions WHERE product_id = $1`, productID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count stock transactions: %w", err)
	}
	return count, nil
}

// DeleteByProduct elimina el historial completo de un producto (cascada de borrado).
func (r *StockTransactionRepo) DeleteByProduct(productID string) (int64, error) {
	tag, err := r.q.Exec(context.Background(),
		`DELETE FROM stock_transactions WHERE product_id = $1`, productID)
	if err != nil {
		return 0, fmt.Errorf("delete stock transactions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteOlderThan elimina transacciones estrictamente anteriores al corte.
func (r *StockTransactionRepo) DeleteOlderThan(cutoff time.Time) (int64, error) {
	tag, err := r.q.Exec(context.Background(),
		`DELETE FROM stock_transactions WHERE timestamp < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune stock transactions: %w", err)
	}
	return tag.RowsAffected(), nil
}
