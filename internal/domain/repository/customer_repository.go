package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/comercial-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	// GetForUpdate bloquea la fila del cliente; serializa los asientos de su cuenta corriente.
	GetForUpdate(ctx context.Context, id string) (*entity.Customer, error)
	UpdateBalance(ctx context.Context, id string, balance decimal.Decimal) error
}

// SupplierRepository define el puerto de persistencia para Supplier.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
}
