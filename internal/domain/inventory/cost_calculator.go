package inventory

import "github.com/shopspring/decimal"

// costPrecision decimales con los que se guarda el costo promedio.
const costPrecision = 4

// CostCalculator implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Un stock actual negativo o cero no aporta al promedio: el nuevo costo es el de la entrada.
func CostCalculator(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	if stockActual.LessThanOrEqual(decimal.Zero) {
		if cantEntrada.LessThanOrEqual(decimal.Zero) {
			return costoActual
		}
		return costoEntrada.Round(costPrecision)
	}
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum).Round(costPrecision)
}
