package documents

import (
	"context"
	"fmt"

	"github.com/jhoicas/comercial-api/internal/application/inventory"
	"github.com/jhoicas/comercial-api/internal/domain"
	"github.com/jhoicas/comercial-api/internal/domain/entity"
	"github.com/jhoicas/comercial-api/internal/domain/pricing"
	"github.com/jhoicas/comercial-api/internal/domain/repository"
)

// DeliverPartial registra una nueva entrega (presupuesto) o recepción (compra) de mercadería pendiente
// y recalcula el estado del documento.
func (uc *UseCase) DeliverPartial(ctx context.Context, actor entity.Actor, documentID string, deliveries []LineDelivery) (*StatusResult, error) {
	if !actor.Valid() {
		return nil, domain.ErrUnauthorized
	}
	if !actor.HasRole(entity.RoleAdmin, entity.RoleBodeguero) {
		return nil, domain.ErrForbidden
	}
	if documentID == "" || len(deliveries) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, d := range deliveries {
		if d.LineID == "" || !d.Quantity.IsPositive() || !pricing.ValidQuantity(d.Quantity) {
			return nil, domain.ErrInvalidInput
		}
	}

	var result *StatusResult
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		doc, err := loadForUpdate(ctx, repos, documentID)
		if err != nil {
			return err
		}
		kind, moves := entity.MovesStock(doc.Type)
		if !moves {
			return domain.ErrInvalidInput
		}
		byID := make(map[string]*entity.DocumentLine, len(doc.Lines))
		for _, l := range doc.Lines {
			byID[l.ID] = l
		}

		for _, d := range deliveries {
			line, ok := byID[d.LineID]
			if !ok {
				return fmt.Errorf("renglón %s: %w", d.LineID, domain.ErrNotFound)
			}
			if d.Quantity.GreaterThan(line.Pending()) {
				return fmt.Errorf("renglón %s: pendiente %s, solicitado %s: %w",
					line.ID, line.Pending().String(), d.Quantity.String(), domain.ErrInvalidInput)
			}
			post := inventory.StockPostInput{
				ProductID:     line.ProductID,
				ActorID:       actor.ID,
				Kind:          kind,
				Quantity:      d.Quantity,
				Reason:        "Entrega " + doc.Number,
				ReferenceID:   doc.ID,
				ReferenceType: entity.ReferenceDelivery,
			}
			if kind == entity.StockKindIn {
				unitCost := line.UnitPrice
				post.UnitCost = &unitCost
			}
			if _, err := uc.stock.Post(ctx, repos, post); err != nil {
				return err
			}
			line.Delivered = line.Delivered.Add(d.Quantity)
			if err := repos.Documents.UpdateLineDelivered(ctx, line.ID, line.Delivered); err != nil {
				return err
			}
		}

		status := entity.DeliveryStatus(doc.Lines)
		if !entity.CanTransition(doc.Status, status) {
			return domain.ErrConflict
		}
		if err := repos.Documents.UpdateStatus(ctx, doc.ID, status, ""); err != nil {
			return err
		}
		result = &StatusResult{ID: doc.ID, Status: status}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("document_id", result.ID).
		Str("status", result.Status).
		Int("lines", len(deliveries)).
		Str("actor_id", actor.ID).
		Msg("entrega registrada")
	return result, nil
}
