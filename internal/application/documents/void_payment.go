package documents

import (
	"context"
	"time"

	"github.com/jhoicas/comercial-api/internal/application/account"
	"github.com/jhoicas/comercial-api/internal/domain"
	"github.com/jhoicas/comercial-api/internal/domain/entity"
	"github.com/jhoicas/comercial-api/internal/domain/repository"
)

// VoidPayment anula un pago del documento sin anular el documento. Si el pago fue a cuenta corriente
// se registra el crédito compensatorio en la misma transacción.
func (uc *UseCase) VoidPayment(ctx context.Context, actor entity.Actor, documentID, paymentID, reason string) (*StatusResult, error) {
	if !actor.Valid() {
		return nil, domain.ErrUnauthorized
	}
	if !actor.HasRole(entity.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	if documentID == "" || paymentID == "" {
		return nil, domain.ErrInvalidInput
	}

	var result *StatusResult
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		doc, err := loadForUpdate(ctx, repos, documentID)
		if err != nil {
			return err
		}
		var payment *entity.PaymentLine
		for _, p := range doc.Payments {
			if p.ID == paymentID {
				payment = p
				break
			}
		}
		if payment == nil {
			return domain.ErrNotFound
		}
		if payment.Voided {
			return domain.ErrAlreadyCancelled
		}

		if payment.Method == entity.PaymentAccountCredit {
			_, err := uc.accounts.Post(ctx, repos, account.PostInput{
				CustomerID:          doc.CustomerID,
				ActorID:             actor.ID,
				Direction:           entity.DirectionCredit,
				Amount:              payment.Amount,
				Concept:             "Anulación de pago " + doc.Number,
				ReferenceDocumentID: doc.ID,
				ReferenceType:       entity.ReferencePayment,
				ReversalOf:          payment.AccountMovementID,
			})
			if err != nil {
				return asReversalRejected("no se pudo acreditar el pago "+payment.ID, err)
			}
		}
		if err := repos.Documents.VoidPayment(ctx, payment.ID, time.Now()); err != nil {
			return err
		}
		if err := repos.Documents.UpdateStatus(ctx, doc.ID, doc.Status, auditNote("Pago "+payment.ID+" anulado", actor, reason)); err != nil {
			return err
		}
		result = &StatusResult{ID: doc.ID, Status: doc.Status}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("document_id", documentID).
		Str("payment_id", paymentID).
		Str("actor_id", actor.ID).
		Msg("pago anulado")
	return result, nil
}
