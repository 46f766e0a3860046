package documents

import (
	"context"

	"github.com/jhoicas/comercial-api/internal/application/account"
	"github.com/jhoicas/comercial-api/internal/application/inventory"
	"github.com/jhoicas/comercial-api/internal/domain"
	"github.com/jhoicas/comercial-api/internal/domain/entity"
	"github.com/jhoicas/comercial-api/internal/domain/repository"
)

// CancelDocument anula el documento con asientos compensatorios: devuelve al stock lo entregado
// (o retira lo recibido en compras), acredita los pagos a cuenta corriente y marca el documento cancelled.
// La verificación de estado y el cambio a cancelled ocurren en la misma transacción, con la cabecera bloqueada.
func (uc *UseCase) CancelDocument(ctx context.Context, actor entity.Actor, id, reason string) (*StatusResult, error) {
	if !actor.Valid() {
		return nil, domain.ErrUnauthorized
	}
	if !actor.HasRole(entity.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	if id == "" {
		return nil, domain.ErrInvalidInput
	}

	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		doc, err := loadForUpdate(ctx, repos, id)
		if err != nil {
			return err
		}

		// 1) Stock entregado
		if kind, moves := entity.MovesStock(doc.Type); moves {
			for _, l := range doc.Lines {
				if !l.Delivered.IsPositive() {
					continue
				}
				_, err := uc.stock.Post(ctx, repos, inventory.StockPostInput{
					ProductID:     l.ProductID,
					ActorID:       actor.ID,
					Kind:          entity.OppositeStockKind(kind),
					Quantity:      l.Delivered,
					Reason:        "Anulación " + doc.Number,
					ReferenceID:   doc.ID,
					ReferenceType: entity.ReferenceReversal,
				})
				if err != nil {
					return asReversalRejected("no se pudo revertir el stock del renglón "+l.ID, err)
				}
			}
		}

		// 2) Pagos a cuenta corriente
		for _, p := range doc.Payments {
			if p.Voided || p.Method != entity.PaymentAccountCredit {
				continue
			}
			_, err := uc.accounts.Post(ctx, repos, account.PostInput{
				CustomerID:          doc.CustomerID,
				ActorID:             actor.ID,
				Direction:           entity.DirectionCredit,
				Amount:              p.Amount,
				Concept:             "Anulación " + doc.Number,
				ReferenceDocumentID: doc.ID,
				ReferenceType:       entity.ReferenceReversal,
				ReversalOf:          p.AccountMovementID,
			})
			if err != nil {
				return asReversalRejected("no se pudo acreditar el pago "+p.ID, err)
			}
		}

		// 3) Estado y nota de auditoría
		if !entity.CanTransition(doc.Status, entity.StatusCancelled) {
			return domain.ErrConflict
		}
		return repos.Documents.UpdateStatus(ctx, doc.ID, entity.StatusCancelled, auditNote("Anulado", actor, reason))
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("document_id", id).Str("actor_id", actor.ID).Msg("anulación rechazada")
		return nil, err
	}
	uc.log.Info().
		Str("document_id", id).
		Str("reason", reason).
		Str("actor_id", actor.ID).
		Msg("documento anulado")
	return &StatusResult{ID: id, Status: entity.StatusCancelled}, nil
}

func auditNote(action string, actor entity.Actor, reason string) string {
	note := action + " por " + actor.ID
	if reason != "" {
		note += ": " + reason
	}
	return note
}
