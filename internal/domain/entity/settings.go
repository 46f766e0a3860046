package entity

import "github.com/shopspring/decimal"

// PricingConfig parámetros de precios leídos al inicio de cada operación.
// Se pasa explícitamente a las funciones puras de internal/domain/pricing.
type PricingConfig struct {
	MaxDiscountPct  decimal.Decimal // 0 = sin tope
	CurrencyEpsilon decimal.Decimal // tolerancia de conciliación de pagos
}

// DefaultPricingConfig valores usados cuando no hay fila en settings.
func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		MaxDiscountPct:  decimal.Zero,
		CurrencyEpsilon: decimal.NewFromFloat(0.01),
	}
}
