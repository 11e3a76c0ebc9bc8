package entity

import "time"

// Tipos de transacción de stock. ADJUST fija un valor absoluto (línea base);
// ADD y REMOVE son incrementos con signo implícito por tipo.
const (
	TransactionTypeAdd    = "ADD"
	TransactionTypeRemove = "REMOVE"
	TransactionTypeAdjust = "ADJUST"
)

// IsValidTransactionType valida el tipo de transacción.
func IsValidTransactionType(t string) bool {
	switch t {
	case TransactionTypeAdd, TransactionTypeRemove, TransactionTypeAdjust:
		return true
	}
	return false
}

// StockTransaction es un asiento inmutable del libro de stock. Quantity se
// expresa en la unidad registrada; BaseQuantity y ConversionFactor son una
// instantánea en unidad base al momento del registro, de modo que editar la
// unidad después no reescribe la historia.
type StockTransaction struct {
	ID               string
	Seq              int64 // orden de inserción monotónico; desempata timestamps iguales
	ProductID        string
	UnitID           string
	Type             string // ADD, REMOVE, ADJUST
	Quantity         int64  // magnitud en la unidad registrada, no negativa
	BaseQuantity     int64  // Quantity * ConversionFactor
	ConversionFactor int64  // factor de la unidad al momento del registro
	Timestamp        time.Time
	Note             string
}

// SignedBase devuelve BaseQuantity con el signo implicado por el tipo.
// ADJUST no aporta delta: es un punto de reinicio absoluto.
func (t *StockTransaction) SignedBase() int64 {
	switch t.Type {
	case TransactionTypeAdd:
		return t.BaseQuantity
	case TransactionTypeRemove:
		return -t.BaseQuantity
	}
	return 0
}
