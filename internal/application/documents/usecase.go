// Package documents orquesta el alta, la entrega, la anulación y los pagos de documentos comerciales.
// Cada operación corre en una única transacción: si algún paso falla no queda nada persistido.
package documents

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/comercial-api/internal/application/account"
	"github.com/jhoicas/comercial-api/internal/application/inventory"
	"github.com/jhoicas/comercial-api/internal/application/sequence"
	"github.com/jhoicas/comercial-api/internal/domain"
	"github.com/jhoicas/comercial-api/internal/domain/entity"
	"github.com/jhoicas/comercial-api/internal/domain/repository"
)

// UseCase orquestador de documentos.
type UseCase struct {
	txRunner  repository.TxRunner
	stock     *inventory.StockLedger
	accounts  *account.Ledger
	sequences *sequence.Generator
	log       zerolog.Logger
}

// NewUseCase construye el orquestador con sus colaboradores.
func NewUseCase(
	txRunner repository.TxRunner,
	stock *inventory.StockLedger,
	accounts *account.Ledger,
	sequences *sequence.Generator,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		txRunner:  txRunner,
		stock:     stock,
		accounts:  accounts,
		sequences: sequences,
		log:       log.With().Str("component", "documents").Logger(),
	}
}

// LineInput renglón pedido. UnitPrice nil toma el precio del producto (o el costo, en compras).
type LineInput struct {
	ProductID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   *decimal.Decimal
}

// PaymentInput pago aplicado en el alta.
type PaymentInput struct {
	Method string
	Amount decimal.Decimal
}

// CreateDocumentInput entrada de CreateDocument.
// CounterpartID es el cliente (venta, presupuesto, cotización) o el proveedor (compra).
type CreateDocumentInput struct {
	Type           string
	CounterpartID  string
	DeliveryPolicy string
	Lines          []LineInput
	Discount       decimal.Decimal
	Surcharge      decimal.Decimal
	Payments       []PaymentInput
	Notes          string
}

// DocumentResult resultado del alta.
type DocumentResult struct {
	ID     string
	Number string
	Total  decimal.Decimal
	Status string
}

// LineDelivery cantidad a entregar (o recibir) de un renglón.
type LineDelivery struct {
	LineID   string
	Quantity decimal.Decimal
}

// StatusResult resultado de las operaciones que cambian el estado del documento.
type StatusResult struct {
	ID     string
	Status string
}

// GetDocument devuelve el documento con renglones y pagos.
func (uc *UseCase) GetDocument(ctx context.Context, id string) (*entity.Document, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	var doc *entity.Document
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		var err error
		doc, err = repos.Documents.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		return nil
	})
	return doc, err
}

func loadForUpdate(ctx context.Context, repos repository.Repos, id string) (*entity.Document, error) {
	doc, err := repos.Documents.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	if doc.Status == entity.StatusCancelled {
		return nil, domain.ErrAlreadyCancelled
	}
	return doc, nil
}

// asReversalRejected convierte los rechazos de negocio de un asiento compensatorio en ErrReversalRejected.
// Los errores de infraestructura se devuelven tal cual.
func asReversalRejected(reason string, err error) error {
	switch {
	case errors.Is(err, domain.ErrReversalRejected):
		return err
	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrCreditLimitExceeded),
		errors.Is(err, domain.ErrCreditAccountDisabled),
		errors.Is(err, domain.ErrNotFound):
		return domain.NewReversalRejected(reason, err)
	}
	return err
}
