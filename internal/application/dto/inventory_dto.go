package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/comercial-api/internal/domain/entity"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// Kind in|out|adjust; en adjust Quantity es la cantidad contada.
type RegisterMovementRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Kind      string           `json:"kind" validate:"required,oneof=in out adjust"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
	Reason    string           `json:"reason" validate:"required,max=500"`
}

// StockMovementResponse asiento del libro de stock.
type StockMovementResponse struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	ActorID        string          `json:"actor_id"`
	Kind           string          `json:"kind"`
	Quantity       decimal.Decimal `json:"quantity"`
	QuantityBefore decimal.Decimal `json:"quantity_before"`
	QuantityAfter  decimal.Decimal `json:"quantity_after"`
	Reason         string          `json:"reason"`
	ReferenceID    string          `json:"reference_id,omitempty"`
	ReferenceType  string          `json:"reference_type,omitempty"`
	ReversalOf     string          `json:"reversal_of,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// StockMovementFromEntity mapea la entidad a la respuesta.
func StockMovementFromEntity(m *entity.StockMovement) *StockMovementResponse {
	if m == nil {
		return nil
	}
	return &StockMovementResponse{
		ID:             m.ID,
		ProductID:      m.ProductID,
		ActorID:        m.ActorID,
		Kind:           m.Kind,
		Quantity:       m.Quantity,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		Reason:         m.Reason,
		ReferenceID:    m.ReferenceID,
		ReferenceType:  m.ReferenceType,
		ReversalOf:     m.ReversalOf,
		CreatedAt:      m.CreatedAt,
	}
}

// StockCardResponse ficha de stock paginada.
type StockCardResponse struct {
	Items []*StockMovementResponse `json:"items"`
	Page  PageResponse             `json:"page"`
}
