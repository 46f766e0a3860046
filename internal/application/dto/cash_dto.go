package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/comercial-api/internal/domain/entity"
)

// CashLineItemRequest movimiento manual de efectivo (retiros negativos).
type CashLineItemRequest struct {
	Concept string          `json:"concept" validate:"required,max=200"`
	Amount  decimal.Decimal `json:"amount"`
}

// CloseCashRequest body para POST /api/cash/closings.
type CloseCashRequest struct {
	Register       string                `json:"register,omitempty" validate:"max=60"`
	WindowStart    time.Time             `json:"window_start" validate:"required"`
	WindowEnd      time.Time             `json:"window_end" validate:"required,gtfield=WindowStart"`
	OpeningBalance decimal.Decimal       `json:"opening_balance"`
	CountedAmount  decimal.Decimal       `json:"counted_amount"`
	LineItems      []CashLineItemRequest `json:"line_items" validate:"dive"`
}

// CloseCashResponse resultado del arqueo.
type CloseCashResponse struct {
	ID           string          `json:"id"`
	ExpectedCash decimal.Decimal `json:"expected_cash"`
	Discrepancy  decimal.Decimal `json:"discrepancy"`
}

// CashClosingResponse arqueo con su foto.
type CashClosingResponse struct {
	ID             string              `json:"id"`
	Register       string              `json:"register"`
	ActorID        string              `json:"actor_id"`
	WindowStart    time.Time           `json:"window_start"`
	WindowEnd      time.Time           `json:"window_end"`
	OpeningBalance decimal.Decimal     `json:"opening_balance"`
	ExpectedCash   decimal.Decimal     `json:"expected_cash"`
	CountedAmount  decimal.Decimal     `json:"counted_amount"`
	Discrepancy    decimal.Decimal     `json:"discrepancy"`
	Snapshot       entity.CashSnapshot `json:"snapshot"`
	CreatedAt      time.Time           `json:"created_at"`
}

// CashClosingFromEntity mapea la entidad a la respuesta.
func CashClosingFromEntity(c *entity.CashClosing) *CashClosingResponse {
	if c == nil {
		return nil
	}
	return &CashClosingResponse{
		ID:             c.ID,
		Register:       c.Register,
		ActorID:        c.ActorID,
		WindowStart:    c.WindowStart,
		WindowEnd:      c.WindowEnd,
		OpeningBalance: c.OpeningBalance,
		ExpectedCash:   c.ExpectedCash,
		CountedAmount:  c.CountedAmount,
		Discrepancy:    c.Discrepancy,
		Snapshot:       c.Snapshot,
		CreatedAt:      c.CreatedAt,
	}
}
