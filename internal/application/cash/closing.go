// Package cash implementa el arqueo de caja.
package cash

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/comercial-api/internal/domain"
	"github.com/jhoicas/comercial-api/internal/domain/entity"
	"github.com/jhoicas/comercial-api/internal/domain/pricing"
	"github.com/jhoicas/comercial-api/internal/domain/repository"
)

// UseCase arqueos de caja. Solo lee los libros; lo único que escribe es el registro del arqueo.
type UseCase struct {
	txRunner        repository.TxRunner
	reports         repository.CashReportRepository
	defaultRegister string
	log             zerolog.Logger
}

// NewUseCase construye el caso de uso. defaultRegister se usa cuando la entrada no indica caja.
func NewUseCase(txRunner repository.TxRunner, reports repository.CashReportRepository, defaultRegister string, log zerolog.Logger) *UseCase {
	return &UseCase{
		txRunner:        txRunner,
		reports:         reports,
		defaultRegister: defaultRegister,
		log:             log.With().Str("component", "cash").Logger(),
	}
}

// CloseInput entrada del arqueo. LineItems son movimientos manuales de efectivo con signo
// (retiros negativos, aportes positivos).
type CloseInput struct {
	Register       string
	WindowStart    time.Time
	WindowEnd      time.Time
	OpeningBalance decimal.Decimal
	CountedAmount  decimal.Decimal
	LineItems      []entity.CashLineItem
}

// CloseResult resultado del arqueo.
type CloseResult struct {
	ID           string
	ExpectedCash decimal.Decimal
	Discrepancy  decimal.Decimal
}

// CloseCash calcula el efectivo esperado de la ventana [start, end), lo compara con lo contado y
// guarda el arqueo con su foto. Falla con ErrConflict si la ventana se superpone con otro arqueo de la misma caja.
func (uc *UseCase) CloseCash(ctx context.Context, actor entity.Actor, in CloseInput) (*CloseResult, error) {
	if !actor.Valid() {
		return nil, domain.ErrUnauthorized
	}
	if !actor.HasRole(entity.RoleAdmin, entity.RoleVendedor) {
		return nil, domain.ErrForbidden
	}
	if err := validateClose(in); err != nil {
		return nil, err
	}
	register := in.Register
	if register == "" {
		register = uc.defaultRegister
	}
	if register == "" {
		return nil, domain.ErrInvalidInput
	}

	// Lecturas de agregación en paralelo, fuera de la transacción de escritura.
	var (
		paymentTotals []entity.PaymentTotal
		accountTotals repository.AccountTotals
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		paymentTotals, err = uc.reports.PaymentTotals(gctx, in.WindowStart, in.WindowEnd)
		if err != nil {
			return fmt.Errorf("totales de pagos: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		accountTotals, err = uc.reports.AccountTotals(gctx, in.WindowStart, in.WindowEnd)
		if err != nil {
			return fmt.Errorf("totales de cuenta corriente: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snapshot := BuildSnapshot(paymentTotals, accountTotals, in.LineItems)
	expected := ExpectedCash(in.OpeningBalance, snapshot)
	discrepancy := pricing.RoundCurrency(in.CountedAmount.Sub(expected))

	closing := &entity.CashClosing{
		ID:             uuid.New().String(),
		Register:       register,
		ActorID:        actor.ID,
		WindowStart:    in.WindowStart,
		WindowEnd:      in.WindowEnd,
		OpeningBalance: pricing.RoundCurrency(in.OpeningBalance),
		ExpectedCash:   expected,
		CountedAmount:  pricing.RoundCurrency(in.CountedAmount),
		Discrepancy:    discrepancy,
		Snapshot:       snapshot,
		CreatedAt:      time.Now(),
	}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		if err := repos.CashClosings.LockScope(ctx, register); err != nil {
			return err
		}
		overlap, err := repos.CashClosings.HasOverlap(ctx, register, in.WindowStart, in.WindowEnd)
		if err != nil {
			return err
		}
		if overlap {
			return fmt.Errorf("ya existe un arqueo de la caja %s que se superpone con la ventana: %w", register, domain.ErrConflict)
		}
		return repos.CashClosings.Create(ctx, closing)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("closing_id", closing.ID).
		Str("register", register).
		Time("window_start", in.WindowStart).
		Time("window_end", in.WindowEnd).
		Str("expected", expected.StringFixed(2)).
		Str("counted", closing.CountedAmount.StringFixed(2)).
		Str("discrepancy", discrepancy.StringFixed(2)).
		Str("actor_id", actor.ID).
		Msg("arqueo de caja registrado")
	return &CloseResult{ID: closing.ID, ExpectedCash: expected, Discrepancy: discrepancy}, nil
}

// ListClosings arqueos de una caja, el más reciente primero. Caja vacía lista todas.
func (uc *UseCase) ListClosings(ctx context.Context, register string, limit, offset int) ([]*entity.CashClosing, error) {
	var out []*entity.CashClosing
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		var err error
		out, err = repos.CashClosings.List(ctx, register, limit, offset)
		return err
	})
	return out, err
}

func validateClose(in CloseInput) error {
	if in.WindowStart.IsZero() || in.WindowEnd.IsZero() || !in.WindowEnd.After(in.WindowStart) {
		return domain.ErrInvalidInput
	}
	if in.OpeningBalance.IsNegative() || in.CountedAmount.IsNegative() {
		return domain.ErrInvalidInput
	}
	for _, li := range in.LineItems {
		if li.Concept == "" || li.Amount.IsZero() {
			return domain.ErrInvalidInput
		}
	}
	return nil
}
