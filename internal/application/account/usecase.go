package account

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/comercial-api/internal/domain"
	"github.com/jhoicas/comercial-api/internal/domain/entity"
	"github.com/jhoicas/comercial-api/internal/domain/repository"
)

// UseCase operaciones sobre la cuenta corriente: ajustes manuales, reversión de asientos y extracto.
type UseCase struct {
	txRunner repository.TxRunner
	ledger   *Ledger
	log      zerolog.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner repository.TxRunner, ledger *Ledger, log zerolog.Logger) *UseCase {
	return &UseCase{
		txRunner: txRunner,
		ledger:   ledger,
		log:      log.With().Str("component", "accounts").Logger(),
	}
}

// AdjustmentInput corrección manual (o cobro a cuenta, con Direction=credit).
type AdjustmentInput struct {
	CustomerID string
	Direction  string
	Amount     decimal.Decimal
	Concept    string
}

// AdjustmentResult resultado de PostAdjustment.
type AdjustmentResult struct {
	MovementID string
	NewBalance decimal.Decimal
}

// PostAdjustment registra un asiento manual en su propia transacción.
func (uc *UseCase) PostAdjustment(ctx context.Context, actor entity.Actor, in AdjustmentInput) (*AdjustmentResult, error) {
	if !actor.Valid() {
		return nil, domain.ErrUnauthorized
	}
	if !actor.HasRole(entity.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	if in.Concept == "" {
		return nil, domain.ErrInvalidInput
	}
	var mov *entity.AccountMovement
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		var err error
		mov, err = uc.ledger.Post(ctx, repos, PostInput{
			CustomerID:    in.CustomerID,
			ActorID:       actor.ID,
			Direction:     in.Direction,
			Amount:        in.Amount,
			Concept:       in.Concept,
			ReferenceType: entity.ReferenceAdjustment,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("movement_id", mov.ID).
		Str("customer_id", mov.CustomerID).
		Str("direction", mov.Direction).
		Str("amount", mov.Amount.String()).
		Str("actor_id", actor.ID).
		Msg("ajuste de cuenta corriente")
	return &AdjustmentResult{MovementID: mov.ID, NewBalance: mov.BalanceAfter}, nil
}

// ReverseMovement anula un asiento manual con otro de sentido opuesto.
// Los asientos generados por documentos se anulan con CancelDocument o VoidPayment.
func (uc *UseCase) ReverseMovement(ctx context.Context, actor entity.Actor, movementID, reason string) (*AdjustmentResult, error) {
	if !actor.Valid() {
		return nil, domain.ErrUnauthorized
	}
	if !actor.HasRole(entity.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	if movementID == "" {
		return nil, domain.ErrInvalidInput
	}
	var rev *entity.AccountMovement
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		orig, err := repos.AccountMovements.GetByID(ctx, movementID)
		if err != nil {
			return err
		}
		if orig == nil {
			return domain.ErrNotFound
		}
		if orig.ReversalOf != "" || orig.ReferenceType != entity.ReferenceAdjustment {
			return domain.ErrInvalidInput
		}
		// Bloquear el cliente antes de buscar reversiones previas: dos anulaciones simultáneas se serializan acá.
		if _, err := repos.Customers.GetForUpdate(ctx, orig.CustomerID); err != nil {
			return err
		}
		existing, err := repos.AccountMovements.FindReversalOf(ctx, orig.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrAlreadyCancelled
		}
		// Se revierte el efecto real sobre el saldo: un crédito recortado en cero solo descontó el saldo previo.
		effect := orig.BalanceAfter.Sub(orig.BalanceBefore).Abs()
		if !effect.IsPositive() {
			return domain.NewReversalRejected("el asiento no modificó el saldo", nil)
		}
		concept := "Reversión de asiento"
		if reason != "" {
			concept += ": " + reason
		}
		rev, err = uc.ledger.Post(ctx, repos, PostInput{
			CustomerID:          orig.CustomerID,
			ActorID:             actor.ID,
			Direction:           entity.OppositeDirection(orig.Direction),
			Amount:              effect,
			Concept:             concept,
			ReferenceDocumentID: orig.ReferenceDocumentID,
			ReferenceType:       entity.ReferenceReversal,
			ReversalOf:          orig.ID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("movement_id", movementID).
		Str("reversal_id", rev.ID).
		Str("actor_id", actor.ID).
		Msg("asiento revertido")
	return &AdjustmentResult{MovementID: rev.ID, NewBalance: rev.BalanceAfter}, nil
}

// Statement extracto de la cuenta corriente en orden cronológico.
func (uc *UseCase) Statement(ctx context.Context, customerID string, from, to *time.Time, limit, offset int) (*entity.Customer, []*entity.AccountMovement, error) {
	if customerID == "" {
		return nil, nil, domain.ErrInvalidInput
	}
	var (
		customer *entity.Customer
		out      []*entity.AccountMovement
	)
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		var err error
		customer, err = repos.Customers.GetByID(ctx, customerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.ErrNotFound
		}
		out, err = repos.AccountMovements.ListByCustomer(ctx, customerID, from, to, limit, offset)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return customer, out, nil
}
