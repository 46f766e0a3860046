package account_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/comercial-api/internal/application/account"
	"github.com/jhoicas/comercial-api/internal/domain"
	"github.com/jhoicas/comercial-api/internal/domain/entity"
	"github.com/jhoicas/comercial-api/internal/infrastructure/memory"
)

var admin = entity.Actor{ID: "u-admin", Role: entity.RoleAdmin}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newUseCase(balance, limit string) (*memory.Store, *account.UseCase) {
	store := memory.NewStore()
	c := entity.Customer{ID: "c1", Name: "Kiosco Central", Active: true, HasCreditAccount: true, Balance: d(balance)}
	if limit != "" {
		l := d(limit)
		c.CreditLimit = &l
	}
	store.PutCustomer(c)
	store.PutCustomer(entity.Customer{ID: "c-off", Name: "Baja", Active: false, HasCreditAccount: true})
	store.PutCustomer(entity.Customer{ID: "c-nocc", Name: "Contado", Active: true})
	log := zerolog.Nop()
	return store, account.NewUseCase(store, account.NewLedger(log), log)
}

func TestPostAdjustment_DebitoYCredito(t *testing.T) {
	store, uc := newUseCase("0", "1000")
	ctx := context.Background()

	res, err := uc.PostAdjustment(ctx, admin, account.AdjustmentInput{CustomerID: "c1", Direction: entity.DirectionDebit, Amount: d("250.555"), Concept: "saldo inicial"})
	require.NoError(t, err)
	assert.Equal(t, "250.56", res.NewBalance.StringFixed(2))

	res, err = uc.PostAdjustment(ctx, admin, account.AdjustmentInput{CustomerID: "c1", Direction: entity.DirectionCredit, Amount: d("50.56"), Concept: "cobro"})
	require.NoError(t, err)
	assert.True(t, d("200").Equal(res.NewBalance))

	c, _ := store.Customer("c1")
	movs := store.AccountMovements("c1")
	require.Len(t, movs, 2)
	assert.True(t, c.Balance.Equal(movs[1].BalanceAfter))
	assert.True(t, movs[1].BalanceBefore.Equal(movs[0].BalanceAfter))
}

func TestPostAdjustment_CreditoNoBajaDeCero(t *testing.T) {
	_, uc := newUseCase("100", "")

	res, err := uc.PostAdjustment(context.Background(), admin, account.AdjustmentInput{CustomerID: "c1", Direction: entity.DirectionCredit, Amount: d("150"), Concept: "cobro"})
	require.NoError(t, err)
	assert.True(t, res.NewBalance.IsZero())
}

func TestPostAdjustment_LimiteDeCredito(t *testing.T) {
	store, uc := newUseCase("800", "1000")

	_, err := uc.PostAdjustment(context.Background(), admin, account.AdjustmentInput{CustomerID: "c1", Direction: entity.DirectionDebit, Amount: d("300"), Concept: "ajuste"})
	require.Error(t, err)
	var cl *domain.CreditLimitExceededError
	require.True(t, errors.As(err, &cl))
	assert.True(t, d("200").Equal(cl.Available()))

	c, _ := store.Customer("c1")
	assert.True(t, d("800").Equal(c.Balance))
	assert.Empty(t, store.AccountMovements("c1"))
}

func TestPostAdjustment_Errores(t *testing.T) {
	_, uc := newUseCase("0", "")
	ctx := context.Background()

	cases := []struct {
		name  string
		actor entity.Actor
		in    account.AdjustmentInput
		want  error
	}{
		{"sin actor", entity.Actor{}, account.AdjustmentInput{CustomerID: "c1", Direction: entity.DirectionDebit, Amount: d("1"), Concept: "x"}, domain.ErrUnauthorized},
		{"vendedor", entity.Actor{ID: "u", Role: entity.RoleVendedor}, account.AdjustmentInput{CustomerID: "c1", Direction: entity.DirectionDebit, Amount: d("1"), Concept: "x"}, domain.ErrForbidden},
		{"monto cero", admin, account.AdjustmentInput{CustomerID: "c1", Direction: entity.DirectionDebit, Amount: d("0"), Concept: "x"}, domain.ErrInvalidInput},
		{"sentido inválido", admin, account.AdjustmentInput{CustomerID: "c1", Direction: "both", Amount: d("1"), Concept: "x"}, domain.ErrInvalidInput},
		{"cliente inactivo", admin, account.AdjustmentInput{CustomerID: "c-off", Direction: entity.DirectionDebit, Amount: d("1"), Concept: "x"}, domain.ErrNotFound},
		{"sin cuenta corriente", admin, account.AdjustmentInput{CustomerID: "c-nocc", Direction: entity.DirectionDebit, Amount: d("1"), Concept: "x"}, domain.ErrCreditAccountDisabled},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.PostAdjustment(ctx, tc.actor, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestReverseMovement(t *testing.T) {
	store, uc := newUseCase("500", "1000")
	ctx := context.Background()

	payment, err := uc.PostAdjustment(ctx, admin, account.AdjustmentInput{CustomerID: "c1", Direction: entity.DirectionCredit, Amount: d("200"), Concept: "cobro en efectivo"})
	require.NoError(t, err)

	res, err := uc.ReverseMovement(ctx, admin, payment.MovementID, "cheque rechazado")
	require.NoError(t, err)
	assert.True(t, d("500").Equal(res.NewBalance))

	movs := store.AccountMovements("c1")
	require.Len(t, movs, 2)
	assert.Equal(t, payment.MovementID, movs[1].ReversalOf)
	assert.Equal(t, entity.DirectionDebit, movs[1].Direction)

	_, err = uc.ReverseMovement(ctx, admin, payment.MovementID, "otra vez")
	assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)

	_, err = uc.ReverseMovement(ctx, admin, movs[1].ID, "reversión de reversión")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReverseMovement_DebitoRespetaLimite(t *testing.T) {
	store, uc := newUseCase("500", "1000")
	ctx := context.Background()

	payment, err := uc.PostAdjustment(ctx, admin, account.AdjustmentInput{CustomerID: "c1", Direction: entity.DirectionCredit, Amount: d("300"), Concept: "cobro"})
	require.NoError(t, err)
	_, err = uc.PostAdjustment(ctx, admin, account.AdjustmentInput{CustomerID: "c1", Direction: entity.DirectionDebit, Amount: d("700"), Concept: "venta fuera de sistema"})
	require.NoError(t, err)

	// 900 + 300 > 1000: la reversión del cobro no entra en el límite.
	_, err = uc.ReverseMovement(ctx, admin, payment.MovementID, "cheque rechazado")
	assert.ErrorIs(t, err, domain.ErrCreditLimitExceeded)
	c, _ := store.Customer("c1")
	assert.True(t, d("900").Equal(c.Balance))
}

func TestReverseMovement_CargoConSaldoMenorQuedaEnCero(t *testing.T) {
	store, uc := newUseCase("0", "")
	ctx := context.Background()

	debit, err := uc.PostAdjustment(ctx, admin, account.AdjustmentInput{CustomerID: "c1", Direction: entity.DirectionDebit, Amount: d("100"), Concept: "cargo"})
	require.NoError(t, err)
	_, err = uc.PostAdjustment(ctx, admin, account.AdjustmentInput{CustomerID: "c1", Direction: entity.DirectionCredit, Amount: d("80"), Concept: "cobro"})
	require.NoError(t, err)

	// Revertir el cargo de 100 con saldo 20 deja el saldo en cero.
	res, err := uc.ReverseMovement(ctx, admin, debit.MovementID, "cargo duplicado")
	require.NoError(t, err)
	assert.True(t, res.NewBalance.IsZero())
	c, _ := store.Customer("c1")
	assert.True(t, c.Balance.IsZero())
}

func TestReverseMovement_CreditoRecortadoDevuelveSoloLoDescontado(t *testing.T) {
	store, uc := newUseCase("100", "")
	ctx := context.Background()

	payment, err := uc.PostAdjustment(ctx, admin, account.AdjustmentInput{CustomerID: "c1", Direction: entity.DirectionCredit, Amount: d("600"), Concept: "cobro"})
	require.NoError(t, err)
	assert.True(t, payment.NewBalance.IsZero())

	res, err := uc.ReverseMovement(ctx, admin, payment.MovementID, "cobro mal cargado")
	require.NoError(t, err)
	assert.True(t, d("100").Equal(res.NewBalance))

	movs := store.AccountMovements("c1")
	require.Len(t, movs, 2)
	assert.True(t, d("100").Equal(movs[1].Amount))
	c, _ := store.Customer("c1")
	assert.True(t, c.Balance.Equal(movs[1].BalanceAfter))
}

func TestReverseMovement_AsientoSinEfecto(t *testing.T) {
	store, uc := newUseCase("0", "")
	ctx := context.Background()

	payment, err := uc.PostAdjustment(ctx, admin, account.AdjustmentInput{CustomerID: "c1", Direction: entity.DirectionCredit, Amount: d("50"), Concept: "cobro"})
	require.NoError(t, err)

	_, err = uc.ReverseMovement(ctx, admin, payment.MovementID, "cobro mal cargado")
	assert.ErrorIs(t, err, domain.ErrReversalRejected)
	c, _ := store.Customer("c1")
	assert.True(t, c.Balance.IsZero())
	assert.Len(t, store.AccountMovements("c1"), 1)
}

func TestStatement(t *testing.T) {
	_, uc := newUseCase("0", "")
	ctx := context.Background()

	for _, amount := range []string{"10", "20", "30"} {
		_, err := uc.PostAdjustment(ctx, admin, account.AdjustmentInput{CustomerID: "c1", Direction: entity.DirectionDebit, Amount: d(amount), Concept: "cargo"})
		require.NoError(t, err)
	}
	customer, movs, err := uc.Statement(ctx, "c1", nil, nil, 2, 1)
	require.NoError(t, err)
	assert.True(t, d("60").Equal(customer.Balance))
	require.Len(t, movs, 2)
	assert.True(t, d("20").Equal(movs[0].Amount))

	_, _, err = uc.Statement(ctx, "c-404", nil, nil, 10, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
