package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/comercial-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Stock solo se escribe desde el libro de stock (UpdateStock), nunca desde un alta o edición.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// GetForUpdate obtiene el producto y bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	UpdateStock(ctx context.Context, id string, stock decimal.Decimal) error
	UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error
}
