package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/comercial-api/internal/domain/entity"
)

// AdjustmentRequest body para POST /api/accounts/:customerId/adjustments.
type AdjustmentRequest struct {
	Direction string          `json:"direction" validate:"required,oneof=debit credit"`
	Amount    decimal.Decimal `json:"amount"`
	Concept   string          `json:"concept" validate:"required,max=300"`
}

// AdjustmentResponse resultado del ajuste o de la reversión.
type AdjustmentResponse struct {
	MovementID string          `json:"movement_id"`
	NewBalance decimal.Decimal `json:"new_balance"`
}

// ReverseMovementRequest body para revertir un asiento manual.
type ReverseMovementRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// AccountMovementResponse asiento de cuenta corriente.
type AccountMovementResponse struct {
	ID                  string          `json:"id"`
	Direction           string          `json:"direction"`
	Concept             string          `json:"concept"`
	Amount              decimal.Decimal `json:"amount"`
	BalanceBefore       decimal.Decimal `json:"balance_before"`
	BalanceAfter        decimal.Decimal `json:"balance_after"`
	ReferenceDocumentID string          `json:"reference_document_id,omitempty"`
	ReferenceType       string          `json:"reference_type,omitempty"`
	ReversalOf          string          `json:"reversal_of,omitempty"`
	ActorID             string          `json:"actor_id"`
	CreatedAt           time.Time       `json:"created_at"`
}

// StatementResponse extracto de cuenta corriente.
type StatementResponse struct {
	CustomerID  string                     `json:"customer_id"`
	Balance     decimal.Decimal            `json:"balance"`
	CreditLimit *decimal.Decimal           `json:"credit_limit,omitempty"`
	Items       []*AccountMovementResponse `json:"items"`
	Page        PageResponse               `json:"page"`
}

// AccountMovementFromEntity mapea la entidad a la respuesta.
func AccountMovementFromEntity(m *entity.AccountMovement) *AccountMovementResponse {
	if m == nil {
		return nil
	}
	return &AccountMovementResponse{
		ID:                  m.ID,
		Direction:           m.Direction,
		Concept:             m.Concept,
		Amount:              m.Amount,
		BalanceBefore:       m.BalanceBefore,
		BalanceAfter:        m.BalanceAfter,
		ReferenceDocumentID: m.ReferenceDocumentID,
		ReferenceType:       m.ReferenceType,
		ReversalOf:          m.ReversalOf,
		ActorID:             m.ActorID,
		CreatedAt:           m.CreatedAt,
	}
}
