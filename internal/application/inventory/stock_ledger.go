package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/comercial-api/internal/domain"
	"github.com/jhoicas/comercial-api/internal/domain/entity"
	costcalc "github.com/jhoicas/comercial-api/internal/domain/inventory"
	"github.com/jhoicas/comercial-api/internal/domain/pricing"
	"github.com/jhoicas/comercial-api/internal/domain/repository"
)

// StockPostInput datos de un asiento del libro de stock.
// UnitCost solo aplica a entradas (in) y recalcula el costo promedio del producto.
type StockPostInput struct {
	ProductID     string
	ActorID       string
	Kind          string
	Quantity      decimal.Decimal
	Reason        string
	ReferenceID   string
	ReferenceType string
	ReversalOf    string
	UnitCost      *decimal.Decimal
}

// StockLedger registra movimientos de stock dentro de la transacción del caller.
// Cada asiento bloquea la fila del producto (SELECT FOR UPDATE), de modo que dos ventas
// concurrentes del mismo producto se serializan y nunca dejan stock negativo.
type StockLedger struct {
	log zerolog.Logger
}

// NewStockLedger construye el libro de stock.
func NewStockLedger(log zerolog.Logger) *StockLedger {
	return &StockLedger{log: log.With().Str("component", "stock_ledger").Logger()}
}

// Post bloquea el producto, calcula la cantidad resultante, inserta el movimiento y actualiza products.stock.
//
//	in:     after = before + q
//	out:    after = before - q   (ErrInsufficientStock si q > before)
//	adjust: after = q            (recuento físico)
func (l *StockLedger) Post(ctx context.Context, repos repository.Repos, in StockPostInput) (*entity.StockMovement, error) {
	if in.ProductID == "" || !entity.ValidStockKind(in.Kind) || !pricing.ValidQuantity(in.Quantity) {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitCost != nil && !pricing.FitsScale(*in.UnitCost, pricing.QuantityPlaces) {
		return nil, domain.ErrInvalidInput
	}
	if in.Kind == entity.StockKindAdjust {
		if in.Quantity.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	} else if !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}

	product, err := repos.Products.GetForUpdate(ctx, in.ProductID)
	if err != nil {
		return nil, fmt.Errorf("bloquear producto: %w", err)
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	before := product.Stock
	var after decimal.Decimal
	switch in.Kind {
	case entity.StockKindIn:
		after = before.Add(in.Quantity)
	case entity.StockKindOut:
		if in.Quantity.GreaterThan(before) {
			return nil, &domain.InsufficientStockError{ProductID: product.ID, Available: before, Requested: in.Quantity}
		}
		after = before.Sub(in.Quantity)
	case entity.StockKindAdjust:
		after = in.Quantity
	}

	if in.Kind == entity.StockKindIn && in.UnitCost != nil {
		newCost := costcalc.CostCalculator(before, product.Cost, in.Quantity, *in.UnitCost)
		if !newCost.Equal(product.Cost) {
			if err := repos.Products.UpdateCost(ctx, product.ID, newCost); err != nil {
				return nil, fmt.Errorf("actualizar costo: %w", err)
			}
		}
	}

	mov := &entity.StockMovement{
		ID:             uuid.New().String(),
		ProductID:      product.ID,
		ActorID:        in.ActorID,
		Kind:           in.Kind,
		Quantity:       in.Quantity,
		QuantityBefore: before,
		QuantityAfter:  after,
		Reason:         in.Reason,
		ReferenceID:    in.ReferenceID,
		ReferenceType:  in.ReferenceType,
		ReversalOf:     in.ReversalOf,
		CreatedAt:      time.Now(),
	}
	if err := repos.StockMovements.Create(ctx, mov); err != nil {
		return nil, fmt.Errorf("crear movimiento de stock: %w", err)
	}
	if err := repos.Products.UpdateStock(ctx, product.ID, after); err != nil {
		return nil, fmt.Errorf("actualizar stock: %w", err)
	}

	l.log.Debug().
		Str("product_id", product.ID).
		Str("kind", in.Kind).
		Str("quantity", in.Quantity.String()).
		Str("after", after.String()).
		Str("reference_id", in.ReferenceID).
		Msg("movimiento de stock registrado")
	return mov, nil
}
