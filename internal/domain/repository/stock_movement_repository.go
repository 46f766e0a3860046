package repository

import (
	"context"
	"time"

	"github.com/jhoicas/comercial-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para movimientos de stock (solo inserción).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
}
