package repository

import (
	"context"
	"time"

	"github.com/jhoicas/comercial-api/internal/domain/entity"
)

// CashClosingRepository define el puerto de persistencia de arqueos.
type CashClosingRepository interface {
	// LockScope serializa los arqueos de una misma caja hasta el fin de la transacción.
	LockScope(ctx context.Context, register string) error
	HasOverlap(ctx context.Context, register string, start, end time.Time) (bool, error)
	Create(ctx context.Context, closing *entity.CashClosing) error
	List(ctx context.Context, register string, limit, offset int) ([]*entity.CashClosing, error)
}

// CashReportRepository lecturas de agregación para el arqueo; solo lee datos confirmados.
// Sus métodos pueden invocarse en paralelo.
type CashReportRepository interface {
	// PaymentTotals agrupa por tipo de documento y medio los pagos no anulados
	// de documentos no cancelados creados en [start, end).
	PaymentTotals(ctx context.Context, start, end time.Time) ([]entity.PaymentTotal, error)
	AccountTotals(ctx context.Context, start, end time.Time) (AccountTotals, error)
}
