package inventory

import (
	"context"

	"github.com/jhoicas/comercial-api/internal/application/dto"
	"github.com/jhoicas/comercial-api/internal/domain/entity"
)

// RegisterMovementFromRequest adapta el request HTTP al caso de uso RegisterMovement.
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(ctx context.Context, actor entity.Actor, in dto.RegisterMovementRequest) (*dto.StockMovementResponse, error) {
	mov, err := uc.RegisterMovement(ctx, actor, MovementInput{
		ProductID: in.ProductID,
		Kind:      in.Kind,
		Quantity:  in.Quantity,
		UnitCost:  in.UnitCost,
		Reason:    in.Reason,
	})
	if err != nil {
		return nil, err
	}
	return dto.StockMovementFromEntity(mov), nil
}
