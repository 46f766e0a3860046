package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer representa un cliente. Balance es lo que el cliente adeuda en su cuenta corriente
// y solo cambia como efecto de un AccountMovement.
type Customer struct {
	ID               string
	Name             string
	TaxID            string // CUIT/NIT/documento
	Email            string
	Phone            string
	Active           bool
	HasCreditAccount bool
	CreditLimit      *decimal.Decimal // nil = sin límite
	Balance          decimal.Decimal  // >= 0 por convención
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Supplier representa un proveedor (contraparte de las compras).
type Supplier struct {
	ID        string
	Name      string
	TaxID     string
	Email     string
	Phone     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
