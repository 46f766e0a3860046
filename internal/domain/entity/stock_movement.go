package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	StockKindIn     = "in"     // entrada
	StockKindOut    = "out"    // salida
	StockKindAdjust = "adjust" // ajuste por recuento: fija la cantidad
)

// Tipos de referencia usados en movimientos (stock y cuenta corriente).
const (
	ReferenceDocument   = "document"
	ReferenceDelivery   = "delivery"
	ReferenceAdjustment = "adjustment"
	ReferenceReversal   = "reversal"
	ReferencePayment    = "payment"
)

// StockMovement es un asiento inmutable del libro de stock.
// QuantityAfter del último movimiento de un producto coincide con Product.Stock.
type StockMovement struct {
	ID             string
	ProductID      string
	ActorID        string
	Kind           string // in, out, adjust
	Quantity       decimal.Decimal
	QuantityBefore decimal.Decimal
	QuantityAfter  decimal.Decimal
	Reason         string
	ReferenceID    string // documento u operación de origen
	ReferenceType  string
	ReversalOf     string // movimiento compensado, vacío si no es reversión
	CreatedAt      time.Time
}

// ValidStockKind informa si kind es un tipo de movimiento conocido.
func ValidStockKind(kind string) bool {
	switch kind {
	case StockKindIn, StockKindOut, StockKindAdjust:
		return true
	}
	return false
}

// OppositeStockKind devuelve el tipo que compensa a kind (in <-> out). adjust no tiene opuesto.
func OppositeStockKind(kind string) string {
	switch kind {
	case StockKindIn:
		return StockKindOut
	case StockKindOut:
		return StockKindIn
	}
	return ""
}
