package inventory_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/comercial-api/internal/application/inventory"
	"github.com/jhoicas/comercial-api/internal/domain"
	"github.com/jhoicas/comercial-api/internal/domain/entity"
	"github.com/jhoicas/comercial-api/internal/infrastructure/memory"
)

var bodeguero = entity.Actor{ID: "u-bod", Role: entity.RoleBodeguero}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newUseCase() (*memory.Store, *inventory.RegisterMovementUseCase) {
	store := memory.NewStore()
	store.PutProduct(entity.Product{ID: "p1", SKU: "ACE-1", Name: "Aceite 900ml", Price: d("50"), Cost: d("30"), Stock: d("10"), Active: true})
	log := zerolog.Nop()
	return store, inventory.NewRegisterMovementUseCase(store, inventory.NewStockLedger(log), log)
}

func TestRegisterMovement_Tipos(t *testing.T) {
	store, uc := newUseCase()
	ctx := context.Background()

	cost := d("40")
	mov, err := uc.RegisterMovement(ctx, bodeguero, inventory.MovementInput{ProductID: "p1", Kind: entity.StockKindIn, Quantity: d("10"), UnitCost: &cost, Reason: "ingreso"})
	require.NoError(t, err)
	assert.True(t, d("10").Equal(mov.QuantityBefore))
	assert.True(t, d("20").Equal(mov.QuantityAfter))

	p, _ := store.Product("p1")
	assert.True(t, d("35").Equal(p.Cost))

	mov, err = uc.RegisterMovement(ctx, bodeguero, inventory.MovementInput{ProductID: "p1", Kind: entity.StockKindOut, Quantity: d("5"), Reason: "rotura"})
	require.NoError(t, err)
	assert.True(t, d("15").Equal(mov.QuantityAfter))

	mov, err = uc.RegisterMovement(ctx, bodeguero, inventory.MovementInput{ProductID: "p1", Kind: entity.StockKindAdjust, Quantity: d("12"), Reason: "recuento"})
	require.NoError(t, err)
	assert.True(t, d("15").Equal(mov.QuantityBefore))
	assert.True(t, d("12").Equal(mov.QuantityAfter))

	p, _ = store.Product("p1")
	assert.True(t, d("12").Equal(p.Stock))
	movs := store.StockMovements("p1")
	require.Len(t, movs, 3)
	assert.True(t, p.Stock.Equal(movs[2].QuantityAfter))
}

func TestRegisterMovement_RecuentoEnCero(t *testing.T) {
	store, uc := newUseCase()

	_, err := uc.RegisterMovement(context.Background(), bodeguero, inventory.MovementInput{ProductID: "p1", Kind: entity.StockKindAdjust, Quantity: d("0"), Reason: "recuento"})
	require.NoError(t, err)
	p, _ := store.Product("p1")
	assert.True(t, p.Stock.IsZero())
}

func TestRegisterMovement_Errores(t *testing.T) {
	store, uc := newUseCase()
	ctx := context.Background()

	_, err := uc.RegisterMovement(ctx, bodeguero, inventory.MovementInput{ProductID: "p1", Kind: entity.StockKindOut, Quantity: d("11"), Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = uc.RegisterMovement(ctx, bodeguero, inventory.MovementInput{ProductID: "p1", Kind: entity.StockKindIn, Quantity: d("0"), Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterMovement(ctx, bodeguero, inventory.MovementInput{ProductID: "p1", Kind: entity.StockKindAdjust, Quantity: d("-1"), Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterMovement(ctx, bodeguero, inventory.MovementInput{ProductID: "p1", Kind: "transfer", Quantity: d("1"), Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterMovement(ctx, bodeguero, inventory.MovementInput{ProductID: "p1", Kind: entity.StockKindIn, Quantity: d("0.00001"), Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterMovement(ctx, bodeguero, inventory.MovementInput{ProductID: "p-404", Kind: entity.StockKindIn, Quantity: d("1"), Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.RegisterMovement(ctx, entity.Actor{}, inventory.MovementInput{ProductID: "p1", Kind: entity.StockKindIn, Quantity: d("1"), Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	p, _ := store.Product("p1")
	assert.True(t, d("10").Equal(p.Stock))
	assert.Empty(t, store.StockMovements("p1"))
}

func TestListMovements(t *testing.T) {
	_, uc := newUseCase()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := uc.RegisterMovement(ctx, bodeguero, inventory.MovementInput{ProductID: "p1", Kind: entity.StockKindOut, Quantity: d("1"), Reason: "venta manual"})
		require.NoError(t, err)
	}
	movs, err := uc.ListMovements(ctx, "p1", nil, nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 3)
	assert.True(t, d("7").Equal(movs[2].QuantityAfter))

	_, err = uc.ListMovements(ctx, "p-404", nil, nil, 10, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
