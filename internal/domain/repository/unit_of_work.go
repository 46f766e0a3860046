package repository

import "context"

// Repos agrupa los repositorios atados a una misma transacción.
type Repos struct {
	Sequences        SequenceRepository
	Products         ProductRepository
	StockMovements   StockMovementRepository
	Customers        CustomerRepository
	Suppliers        SupplierRepository
	AccountMovements AccountMovementRepository
	Documents        DocumentRepository
	CashClosings     CashClosingRepository
	Settings         SettingsRepository
}

// TxRunner ejecuta fn dentro de una transacción, pasando repositorios atados a ella.
// Si fn devuelve error no queda ningún efecto persistido.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error
}
