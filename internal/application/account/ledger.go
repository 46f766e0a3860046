// Package account implementa el libro de cuenta corriente de clientes.
package account

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/comercial-api/internal/domain"
	"github.com/jhoicas/comercial-api/internal/domain/entity"
	"github.com/jhoicas/comercial-api/internal/domain/pricing"
	"github.com/jhoicas/comercial-api/internal/domain/repository"
)

// PostInput datos de un asiento de cuenta corriente.
type PostInput struct {
	CustomerID          string
	ActorID             string
	Direction           string
	Amount              decimal.Decimal
	Concept             string
	ReferenceDocumentID string
	ReferenceType       string
	ReversalOf          string
}

// Ledger registra asientos dentro de la transacción del caller, con la fila del cliente bloqueada.
type Ledger struct {
	log zerolog.Logger
}

// NewLedger construye el libro.
func NewLedger(log zerolog.Logger) *Ledger {
	return &Ledger{log: log.With().Str("component", "account_ledger").Logger()}
}

// Post valida y registra el asiento, y actualiza el saldo del cliente.
//
//	debit:  after = before + amount (respetando el límite de crédito)
//	credit: after = max(0, before - amount)
func (l *Ledger) Post(ctx context.Context, repos repository.Repos, in PostInput) (*entity.AccountMovement, error) {
	if in.CustomerID == "" || !entity.ValidDirection(in.Direction) || !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	amount := pricing.RoundCurrency(in.Amount)
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}

	customer, err := repos.Customers.GetForUpdate(ctx, in.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("bloquear cliente: %w", err)
	}
	if customer == nil || !customer.Active {
		return nil, domain.ErrNotFound
	}
	if !customer.HasCreditAccount {
		return nil, domain.ErrCreditAccountDisabled
	}

	before := customer.Balance
	var after decimal.Decimal
	switch in.Direction {
	case entity.DirectionDebit:
		after = before.Add(amount)
		if customer.CreditLimit != nil && after.GreaterThan(*customer.CreditLimit) {
			return nil, &domain.CreditLimitExceededError{
				CustomerID:    customer.ID,
				Limit:         *customer.CreditLimit,
				BalanceBefore: before,
				Requested:     amount,
			}
		}
	case entity.DirectionCredit:
		after = before.Sub(amount)
		if after.IsNegative() {
			after = decimal.Zero
		}
	}
	after = pricing.RoundCurrency(after)

	mov := &entity.AccountMovement{
		ID:                  uuid.New().String(),
		CustomerID:          customer.ID,
		ActorID:             in.ActorID,
		Direction:           in.Direction,
		Concept:             in.Concept,
		Amount:              amount,
		BalanceBefore:       before,
		BalanceAfter:        after,
		ReferenceDocumentID: in.ReferenceDocumentID,
		ReferenceType:       in.ReferenceType,
		ReversalOf:          in.ReversalOf,
		CreatedAt:           time.Now(),
	}
	if err := repos.AccountMovements.Create(ctx, mov); err != nil {
		return nil, fmt.Errorf("crear movimiento de cuenta: %w", err)
	}
	if err := repos.Customers.UpdateBalance(ctx, customer.ID, after); err != nil {
		return nil, fmt.Errorf("actualizar saldo: %w", err)
	}

	l.log.Debug().
		Str("customer_id", customer.ID).
		Str("direction", in.Direction).
		Str("amount", amount.String()).
		Str("balance_after", after.String()).
		Msg("asiento de cuenta corriente registrado")
	return mov, nil
}
