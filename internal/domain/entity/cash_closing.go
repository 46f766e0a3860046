package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashClosing es la foto inmutable de un arqueo de caja para una ventana [WindowStart, WindowEnd).
// Guarda los renglones usados para que una auditoría no dependa de los libros vivos.
type CashClosing struct {
	ID             string
	Register       string // caja o punto de venta
	ActorID        string
	WindowStart    time.Time
	WindowEnd      time.Time
	OpeningBalance decimal.Decimal
	ExpectedCash   decimal.Decimal
	CountedAmount  decimal.Decimal
	Discrepancy    decimal.Decimal // contado - esperado
	Snapshot       CashSnapshot
	CreatedAt      time.Time
}

// CashLineItem es un movimiento manual de efectivo declarado en el arqueo (retiros negativos).
type CashLineItem struct {
	Concept string          `json:"concept"`
	Amount  decimal.Decimal `json:"amount"`
}

// PaymentTotal agrega pagos por tipo de documento y medio de pago.
type PaymentTotal struct {
	DocumentType string          `json:"document_type"`
	Method       string          `json:"method"`
	Amount       decimal.Decimal `json:"amount"`
	Count        int             `json:"count"`
}

// CashSnapshot es la copia desnormalizada de lo que se usó para calcular el arqueo.
type CashSnapshot struct {
	LineItems      []CashLineItem  `json:"line_items"`
	PaymentTotals  []PaymentTotal  `json:"payment_totals"`
	CashIn         decimal.Decimal `json:"cash_in"`
	CashOut        decimal.Decimal `json:"cash_out"`
	AccountDebits  decimal.Decimal `json:"account_debits"`
	AccountCredits decimal.Decimal `json:"account_credits"`
}
