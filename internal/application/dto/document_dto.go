package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/comercial-api/internal/domain/entity"
)

// DocumentLineRequest renglón del alta. UnitPrice omitido toma el precio de lista.
type DocumentLineRequest struct {
	ProductID   string           `json:"product_id" validate:"required"`
	Description string           `json:"description,omitempty" validate:"max=300"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
}

// PaymentRequest pago del alta.
type PaymentRequest struct {
	Method string          `json:"method" validate:"required,oneof=cash card transfer check account_credit"`
	Amount decimal.Decimal `json:"amount"`
}

// CreateDocumentRequest body para POST /api/documents.
type CreateDocumentRequest struct {
	Type           string                `json:"type" validate:"required,oneof=sale purchase budget quote"`
	CounterpartID  string                `json:"counterpart_id,omitempty"`
	DeliveryPolicy string                `json:"delivery_policy,omitempty" validate:"omitempty,oneof=immediate partial deferred"`
	Lines          []DocumentLineRequest `json:"lines" validate:"required,min=1,dive"`
	Discount       decimal.Decimal       `json:"discount"`
	Surcharge      decimal.Decimal       `json:"surcharge"`
	Payments       []PaymentRequest      `json:"payments" validate:"dive"`
	Notes          string                `json:"notes,omitempty" validate:"max=1000"`
}

// DocumentCreatedResponse respuesta del alta.
type DocumentCreatedResponse struct {
	ID     string          `json:"id"`
	Number string          `json:"number"`
	Total  decimal.Decimal `json:"total"`
	Status string          `json:"status"`
}

// CancelDocumentRequest body para POST /api/documents/:id/cancel.
type CancelDocumentRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// LineDeliveryRequest cantidad a entregar de un renglón.
type LineDeliveryRequest struct {
	LineID   string          `json:"line_id" validate:"required"`
	Quantity decimal.Decimal `json:"quantity"`
}

// DeliverRequest body para POST /api/documents/:id/deliveries.
type DeliverRequest struct {
	Lines []LineDeliveryRequest `json:"lines" validate:"required,min=1,dive"`
}

// VoidPaymentRequest body para anular un pago.
type VoidPaymentRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// StatusResponse id + estado.
type StatusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// DocumentLineResponse renglón con lo entregado.
type DocumentLineResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Delivered   decimal.Decimal `json:"delivered"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// PaymentLineResponse pago del documento.
type PaymentLineResponse struct {
	ID                string          `json:"id"`
	Method            string          `json:"method"`
	Amount            decimal.Decimal `json:"amount"`
	AccountMovementID string          `json:"account_movement_id,omitempty"`
	Voided            bool            `json:"voided"`
	VoidedAt          *time.Time      `json:"voided_at,omitempty"`
}

// DocumentResponse documento completo.
type DocumentResponse struct {
	ID             string                 `json:"id"`
	Type           string                 `json:"type"`
	Number         string                 `json:"number"`
	Status         string                 `json:"status"`
	CustomerID     string                 `json:"customer_id,omitempty"`
	SupplierID     string                 `json:"supplier_id,omitempty"`
	ActorID        string                 `json:"actor_id"`
	DeliveryPolicy string                 `json:"delivery_policy"`
	Subtotal       decimal.Decimal        `json:"subtotal"`
	Discount       decimal.Decimal        `json:"discount"`
	Surcharge      decimal.Decimal        `json:"surcharge"`
	Total          decimal.Decimal        `json:"total"`
	Notes          string                 `json:"notes,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
	Lines          []DocumentLineResponse `json:"lines"`
	Payments       []PaymentLineResponse  `json:"payments"`
}

// DocumentFromEntity mapea la entidad a la respuesta.
func DocumentFromEntity(d *entity.Document) *DocumentResponse {
	if d == nil {
		return nil
	}
	out := &DocumentResponse{
		ID:             d.ID,
		Type:           d.Type,
		Number:         d.Number,
		Status:         d.Status,
		CustomerID:     d.CustomerID,
		SupplierID:     d.SupplierID,
		ActorID:        d.ActorID,
		DeliveryPolicy: d.DeliveryPolicy,
		Subtotal:       d.Subtotal,
		Discount:       d.Discount,
		Surcharge:      d.Surcharge,
		Total:          d.Total,
		Notes:          d.Notes,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
		Lines:          make([]DocumentLineResponse, 0, len(d.Lines)),
		Payments:       make([]PaymentLineResponse, 0, len(d.Payments)),
	}
	for _, l := range d.Lines {
		out.Lines = append(out.Lines, DocumentLineResponse{
			ID:          l.ID,
			ProductID:   l.ProductID,
			Description: l.Description,
			Quantity:    l.Quantity,
			Delivered:   l.Delivered,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal,
		})
	}
	for _, p := range d.Payments {
		out.Payments = append(out.Payments, PaymentLineResponse{
			ID:                p.ID,
			Method:            p.Method,
			Amount:            p.Amount,
			AccountMovementID: p.AccountMovementID,
			Voided:            p.Voided,
			VoidedAt:          p.VoidedAt,
		})
	}
	return out
}
