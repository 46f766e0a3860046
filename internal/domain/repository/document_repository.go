package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/comercial-api/internal/domain/entity"
)

// DocumentRepository define el puerto de persistencia para documentos, renglones y pagos.
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	CreateLine(ctx context.Context, line *entity.DocumentLine) error
	CreatePayment(ctx context.Context, payment *entity.PaymentLine) error
	// GetByID devuelve la cabecera con renglones y pagos; nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Document, error)
	// GetForUpdate igual que GetByID pero bloqueando la cabecera.
	GetForUpdate(ctx context.Context, id string) (*entity.Document, error)
	// UpdateStatus cambia el estado y agrega note a las notas existentes (no las reemplaza).
	UpdateStatus(ctx context.Context, id, status, note string) error
	UpdateLineDelivered(ctx context.Context, lineID string, delivered decimal.Decimal) error
	VoidPayment(ctx context.Context, paymentID string, at time.Time) error
}
