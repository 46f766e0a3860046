// Package pricing contiene las reglas puras de importes de un documento.
// No accede a la base de datos: la configuración llega como parámetro.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/comercial-api/internal/domain"
	"github.com/jhoicas/comercial-api/internal/domain/entity"
)

// Precisión con la que se persisten importes (NUMERIC(18,2)) y cantidades o costos (NUMERIC(18,4)).
const (
	CurrencyPlaces = 2
	QuantityPlaces = 4
)

// MaxCurrencyEpsilon tolerancia máxima entre pagos y total.
var MaxCurrencyEpsilon = decimal.RequireFromString("0.01")

var hundred = decimal.NewFromInt(100)

// RoundCurrency redondea a la precisión monetaria.
func RoundCurrency(v decimal.Decimal) decimal.Decimal {
	return v.Round(CurrencyPlaces)
}

// FitsScale indica si v no tiene más de places decimales.
func FitsScale(v decimal.Decimal, places int32) bool {
	return v.Equal(v.Truncate(places))
}

// ValidAmount importe representable sin redondeo.
func ValidAmount(v decimal.Decimal) bool { return FitsScale(v, CurrencyPlaces) }

// ValidQuantity cantidad representable sin redondeo.
func ValidQuantity(v decimal.Decimal) bool { return FitsScale(v, QuantityPlaces) }

// LineSubtotal = cantidad × precio unitario.
func LineSubtotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return RoundCurrency(quantity.Mul(unitPrice))
}

// Totals importes calculados de un documento.
type Totals struct {
	Subtotal  decimal.Decimal
	Discount  decimal.Decimal
	Surcharge decimal.Decimal
	Total     decimal.Decimal
}

// ComputeTotals aplica total = subtotal - descuento + recargo.
// El descuento no puede superar el subtotal ni el tope porcentual configurado.
func ComputeTotals(lineSubtotals []decimal.Decimal, discount, surcharge decimal.Decimal, cfg entity.PricingConfig) (Totals, error) {
	if discount.IsNegative() || surcharge.IsNegative() {
		return Totals{}, domain.ErrInvalidInput
	}
	subtotal := decimal.Zero
	for _, s := range lineSubtotals {
		subtotal = subtotal.Add(s)
	}
	subtotal = RoundCurrency(subtotal)
	discount = RoundCurrency(discount)
	surcharge = RoundCurrency(surcharge)
	if discount.GreaterThan(subtotal) {
		return Totals{}, domain.ErrInvalidInput
	}
	if cfg.MaxDiscountPct.GreaterThan(decimal.Zero) {
		maxDiscount := subtotal.Mul(cfg.MaxDiscountPct).Div(hundred)
		if discount.GreaterThan(maxDiscount) {
			return Totals{}, domain.ErrInvalidInput
		}
	}
	return Totals{
		Subtotal:  subtotal,
		Discount:  discount,
		Surcharge: surcharge,
		Total:     subtotal.Sub(discount).Add(surcharge),
	}, nil
}

// Reconcile verifica |Σpagos - total| <= epsilon. El epsilon configurado nunca supera MaxCurrencyEpsilon.
func Reconcile(total decimal.Decimal, payments []decimal.Decimal, cfg entity.PricingConfig) error {
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p)
	}
	eps := cfg.CurrencyEpsilon
	if !eps.IsPositive() || eps.GreaterThan(MaxCurrencyEpsilon) {
		eps = MaxCurrencyEpsilon
	}
	if paid.Sub(total).Abs().GreaterThan(eps) {
		return &domain.PaymentMismatchError{Total: total, Paid: paid}
	}
	return nil
}
