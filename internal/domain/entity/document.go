package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de documento comercial.
const (
	DocumentSale     = "sale"
	DocumentPurchase = "purchase"
	DocumentBudget   = "budget"
	DocumentQuote    = "quote"
)

// Estados del documento.
const (
	StatusPending   = "pending"
	StatusPartial   = "partial"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Políticas de entrega de mercadería.
const (
	DeliveryImmediate = "immediate" // todo en el alta, o falla
	DeliveryPartial   = "partial"   // lo que alcance el stock ahora, el resto después
	DeliveryDeferred  = "deferred"  // nada en el alta
)

// Medios de pago.
const (
	PaymentCash          = "cash"
	PaymentCard          = "card"
	PaymentTransfer      = "transfer"
	PaymentCheck         = "check"
	PaymentAccountCredit = "account_credit" // cuenta corriente del cliente
)

// Document es la cabecera de una venta, compra, presupuesto o cotización.
// Total = Subtotal - Discount + Surcharge, fijado en el alta y nunca recalculado.
type Document struct {
	ID             string
	Type           string
	Number         string
	Status         string
	CustomerID     string // venta, presupuesto, cotización
	SupplierID     string // compra
	ActorID        string
	DeliveryPolicy string
	Subtotal       decimal.Decimal
	Discount       decimal.Decimal
	Surcharge      decimal.Decimal
	Total          decimal.Decimal
	Notes          string // solo se agrega texto, nunca se reemplaza
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Lines          []*DocumentLine
	Payments       []*PaymentLine
}

// DocumentLine es un renglón del documento. Delivered acumula lo entregado (o recibido).
type DocumentLine struct {
	ID          string
	DocumentID  string
	ProductID   string
	Description string
	Quantity    decimal.Decimal
	Delivered   decimal.Decimal
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// Pending devuelve la cantidad que falta entregar.
func (l *DocumentLine) Pending() decimal.Decimal {
	return l.Quantity.Sub(l.Delivered)
}

// PaymentLine es un pago aplicado al documento.
// AccountMovementID solo se completa cuando Method = account_credit.
type PaymentLine struct {
	ID                string
	DocumentID        string
	Method            string
	Amount            decimal.Decimal
	AccountMovementID string
	Voided            bool
	VoidedAt          *time.Time
	CreatedAt         time.Time
}

// ValidDocumentType informa si t es un tipo de documento conocido.
func ValidDocumentType(t string) bool {
	switch t {
	case DocumentSale, DocumentPurchase, DocumentBudget, DocumentQuote:
		return true
	}
	return false
}

// ValidPaymentMethod informa si m es un medio de pago conocido.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer, PaymentCheck, PaymentAccountCredit:
		return true
	}
	return false
}

// MovesStock informa si el tipo de documento afecta stock y en qué sentido.
func MovesStock(docType string) (kind string, ok bool) {
	switch docType {
	case DocumentSale, DocumentBudget:
		return StockKindOut, true
	case DocumentPurchase:
		return StockKindIn, true
	}
	return "", false
}

// AllowsDelivery informa si la política es válida para el tipo de documento.
func AllowsDelivery(docType, policy string) bool {
	switch docType {
	case DocumentSale:
		return policy == DeliveryImmediate
	case DocumentBudget:
		return policy == DeliveryImmediate || policy == DeliveryPartial || policy == DeliveryDeferred
	case DocumentPurchase:
		return policy == DeliveryImmediate || policy == DeliveryDeferred
	case DocumentQuote:
		return policy == DeliveryDeferred || policy == ""
	}
	return false
}

// transitions: pending -> {partial, completed, cancelled}; partial -> {partial, completed, cancelled};
// completed -> cancelled. cancelled es terminal.
var transitions = map[string][]string{
	StatusPending:   {StatusPending, StatusPartial, StatusCompleted, StatusCancelled},
	StatusPartial:   {StatusPartial, StatusCompleted, StatusCancelled},
	StatusCompleted: {StatusCancelled},
}

// CanTransition valida el cambio de estado del documento.
func CanTransition(from, to string) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// DeliveryStatus calcula el estado agregado según lo entregado en cada renglón.
func DeliveryStatus(lines []*DocumentLine) string {
	if len(lines) == 0 {
		return StatusCompleted
	}
	allDone, anyDone := true, false
	for _, l := range lines {
		if l.Delivered.GreaterThan(decimal.Zero) {
			anyDone = true
		}
		if l.Delivered.LessThan(l.Quantity) {
			allDone = false
		}
	}
	switch {
	case allDone:
		return StatusCompleted
	case anyDone:
		return StatusPartial
	default:
		return StatusPending
	}
}
