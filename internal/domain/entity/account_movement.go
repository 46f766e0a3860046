package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sentido de un movimiento de cuenta corriente.
const (
	DirectionDebit  = "debit"  // aumenta la deuda del cliente
	DirectionCredit = "credit" // disminuye la deuda del cliente
)

// AccountMovement es un asiento inmutable de la cuenta corriente de un cliente.
// BalanceAfter del último movimiento coincide con Customer.Balance.
type AccountMovement struct {
	ID                  string
	CustomerID          string
	ActorID             string
	Direction           string
	Concept             string
	Amount              decimal.Decimal
	BalanceBefore       decimal.Decimal
	BalanceAfter        decimal.Decimal
	ReferenceDocumentID string
	ReferenceType       string
	ReversalOf          string
	CreatedAt           time.Time
}

// ValidDirection informa si d es debit o credit.
func ValidDirection(d string) bool {
	return d == DirectionDebit || d == DirectionCredit
}

// OppositeDirection devuelve el sentido que compensa a d.
func OppositeDirection(d string) string {
	if d == DirectionDebit {
		return DirectionCredit
	}
	return DirectionDebit
}
