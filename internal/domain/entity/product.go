package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un artículo del catálogo.
// Stock es un valor derivado: solo cambia como efecto de un StockMovement, nunca directamente.
// Cost es el costo promedio ponderado, recalculado en cada ingreso por compra.
type Product struct {
	ID        string
	SKU       string // código único
	Name      string
	Price     decimal.Decimal // precio de venta
	Cost      decimal.Decimal // costo promedio ponderado (inicia en 0)
	Stock     decimal.Decimal
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
