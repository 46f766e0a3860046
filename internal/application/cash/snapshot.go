package cash

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/comercial-api/internal/domain/entity"
	"github.com/jhoicas/comercial-api/internal/domain/pricing"
	"github.com/jhoicas/comercial-api/internal/domain/repository"
)

// BuildSnapshot arma la foto del arqueo: efectivo de ventas y presupuestos entra, efectivo de compras sale.
func BuildSnapshot(totals []entity.PaymentTotal, account repository.AccountTotals, lineItems []entity.CashLineItem) entity.CashSnapshot {
	cashIn, cashOut := decimal.Zero, decimal.Zero
	for _, t := range totals {
		if t.Method != entity.PaymentCash {
			continue
		}
		switch t.DocumentType {
		case entity.DocumentSale, entity.DocumentBudget:
			cashIn = cashIn.Add(t.Amount)
		case entity.DocumentPurchase:
			cashOut = cashOut.Add(t.Amount)
		}
	}
	if lineItems == nil {
		lineItems = []entity.CashLineItem{}
	}
	if totals == nil {
		totals = []entity.PaymentTotal{}
	}
	return entity.CashSnapshot{
		LineItems:      lineItems,
		PaymentTotals:  totals,
		CashIn:         pricing.RoundCurrency(cashIn),
		CashOut:        pricing.RoundCurrency(cashOut),
		AccountDebits:  pricing.RoundCurrency(account.Debits),
		AccountCredits: pricing.RoundCurrency(account.Credits),
	}
}

// ExpectedCash = apertura + efectivo entrado - efectivo salido + Σ movimientos manuales.
func ExpectedCash(opening decimal.Decimal, s entity.CashSnapshot) decimal.Decimal {
	expected := opening.Add(s.CashIn).Sub(s.CashOut)
	for _, li := range s.LineItems {
		expected = expected.Add(li.Amount)
	}
	return pricing.RoundCurrency(expected)
}
