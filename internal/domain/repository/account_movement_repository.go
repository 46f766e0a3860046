package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/comercial-api/internal/domain/entity"
)

// AccountMovementRepository define el puerto del libro de cuenta corriente (solo inserción).
type AccountMovementRepository interface {
	Create(ctx context.Context, movement *entity.AccountMovement) error
	GetByID(ctx context.Context, id string) (*entity.AccountMovement, error)
	// FindReversalOf devuelve el asiento que compensa a id, o nil si no existe.
	FindReversalOf(ctx context.Context, id string) (*entity.AccountMovement, error)
	ListByCustomer(ctx context.Context, customerID string, from, to *time.Time, limit, offset int) ([]*entity.AccountMovement, error)
}

// AccountTotals suma de débitos y créditos de una ventana.
type AccountTotals struct {
	Debits  decimal.Decimal
	Credits decimal.Decimal
}
