package inventory

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/comercial-api/internal/domain"
	"github.com/jhoicas/comercial-api/internal/domain/entity"
	"github.com/jhoicas/comercial-api/internal/domain/repository"
)

// RegisterMovementUseCase registra movimientos manuales de stock (ingreso, egreso o recuento)
// en su propia transacción y expone la ficha de movimientos de un producto.
type RegisterMovementUseCase struct {
	txRunner repository.TxRunner
	ledger   *StockLedger
	log      zerolog.Logger
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(txRunner repository.TxRunner, ledger *StockLedger, log zerolog.Logger) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner: txRunner,
		ledger:   ledger,
		log:      log.With().Str("component", "inventory").Logger(),
	}
}

// MovementInput entrada para registrar un movimiento manual.
// Kind in|out|adjust; en adjust Quantity es la cantidad contada. UnitCost opcional en in.
type MovementInput struct {
	ProductID string
	Kind      string
	Quantity  decimal.Decimal
	UnitCost  *decimal.Decimal
	Reason    string
}

// RegisterMovement valida la entrada y registra el asiento; el producto debe existir y estar activo.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, actor entity.Actor, in MovementInput) (*entity.StockMovement, error) {
	if !actor.Valid() {
		return nil, domain.ErrUnauthorized
	}
	if in.ProductID == "" || !entity.ValidStockKind(in.Kind) {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitCost != nil && (in.Kind != entity.StockKindIn || in.UnitCost.IsNegative()) {
		return nil, domain.ErrInvalidInput
	}

	var mov *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		product, err := repos.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil || !product.Active {
			return domain.ErrNotFound
		}
		mov, err = uc.ledger.Post(ctx, repos, StockPostInput{
			ProductID:     in.ProductID,
			ActorID:       actor.ID,
			Kind:          in.Kind,
			Quantity:      in.Quantity,
			Reason:        in.Reason,
			ReferenceType: entity.ReferenceAdjustment,
			UnitCost:      in.UnitCost,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("movement_id", mov.ID).
		Str("product_id", mov.ProductID).
		Str("kind", mov.Kind).
		Str("actor_id", actor.ID).
		Msg("ajuste de stock registrado")
	return mov, nil
}

// ListMovements devuelve la ficha de stock del producto en orden cronológico.
func (uc *RegisterMovementUseCase) ListMovements(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	var out []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		product, err := repos.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		out, err = repos.StockMovements.ListByProduct(ctx, productID, from, to, limit, offset)
		return err
	})
	return out, err
}
