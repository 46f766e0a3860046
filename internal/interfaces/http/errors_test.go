package http

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/comercial-api/internal/domain"
)

func TestMapError(t *testing.T) {
	stock := &domain.InsufficientStockError{ProductID: "p1", Available: decimal.NewFromInt(1), Requested: decimal.NewFromInt(3)}
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"reversión con faltante", domain.NewReversalRejected("compra anulada", stock), fiber.StatusConflict, "REVERSAL_REJECTED"},
		{"faltante de stock envuelto", fmt.Errorf("renglón 1: %w", stock), fiber.StatusConflict, "INSUFFICIENT_STOCK"},
		{"límite de crédito", &domain.CreditLimitExceededError{CustomerID: "c1", Limit: decimal.NewFromInt(100), BalanceBefore: decimal.NewFromInt(80), Requested: decimal.NewFromInt(50)}, fiber.StatusConflict, "CREDIT_LIMIT_EXCEEDED"},
		{"pagos", &domain.PaymentMismatchError{Total: decimal.NewFromInt(10), Paid: decimal.NewFromInt(9)}, fiber.StatusUnprocessableEntity, "PAYMENT_MISMATCH"},
		{"validación", domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
		{"no encontrado", fmt.Errorf("get: %w", domain.ErrNotFound), fiber.StatusNotFound, "NOT_FOUND"},
		{"anulado", domain.ErrAlreadyCancelled, fiber.StatusConflict, "ALREADY_CANCELLED"},
		{"cuenta deshabilitada", domain.ErrCreditAccountDisabled, fiber.StatusUnprocessableEntity, "CREDIT_ACCOUNT_DISABLED"},
		{"concurrencia", fmt.Errorf("commit: %w", domain.ErrConflict), fiber.StatusConflict, "CONFLICT"},
		{"numerador", domain.ErrConfigurationMissing, fiber.StatusInternalServerError, "CONFIGURATION_MISSING"},
		{"infraestructura", errors.New("dial tcp: connection refused"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := mapError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestMapError_NoExponeDetalleDeInfraestructura(t *testing.T) {
	_, body := mapError(errors.New("pq: password authentication failed"))
	assert.NotContains(t, body.Message, "password")
}
