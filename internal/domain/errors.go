package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrUserNotFound          = errors.New("usuario no encontrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrDuplicate             = errors.New("recurso duplicado")
	ErrUnauthorized          = errors.New("no autorizado")
	ErrForbidden             = errors.New("acceso denegado")
	ErrConflict              = errors.New("conflicto con el estado actual")
	ErrInsufficientStock     = errors.New("stock insuficiente")
	ErrPaymentMismatch       = errors.New("los pagos no coinciden con el total")
	ErrCreditAccountDisabled = errors.New("el cliente no tiene cuenta corriente habilitada")
	ErrCreditLimitExceeded   = errors.New("límite de crédito excedido")
	ErrAlreadyCancelled      = errors.New("el registro ya fue anulado")
	ErrReversalRejected      = errors.New("reversión rechazada")
	ErrConfigurationMissing  = errors.New("configuración faltante")
)

// InsufficientStockError detalla un faltante de stock para un producto.
type InsufficientStockError struct {
	ProductID string
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para el producto %s: disponible %s, solicitado %s",
		e.ProductID, e.Available.String(), e.Requested.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// CreditLimitExceededError lleva los montos necesarios para informar el rechazo.
type CreditLimitExceededError struct {
	CustomerID    string
	Limit         decimal.Decimal
	BalanceBefore decimal.Decimal
	Requested     decimal.Decimal
}

func (e *CreditLimitExceededError) Error() string {
	return fmt.Sprintf("límite de crédito excedido para el cliente %s: límite %s, saldo %s, solicitado %s",
		e.CustomerID, e.Limit.StringFixed(2), e.BalanceBefore.StringFixed(2), e.Requested.StringFixed(2))
}

func (e *CreditLimitExceededError) Unwrap() error { return ErrCreditLimitExceeded }

// Available devuelve el crédito que todavía puede usar el cliente (nunca negativo).
func (e *CreditLimitExceededError) Available() decimal.Decimal {
	avail := e.Limit.Sub(e.BalanceBefore)
	if avail.IsNegative() {
		return decimal.Zero
	}
	return avail
}

// PaymentMismatchError se devuelve cuando la suma de pagos no cuadra con el total del documento.
type PaymentMismatchError struct {
	Total decimal.Decimal
	Paid  decimal.Decimal
}

func (e *PaymentMismatchError) Error() string {
	return fmt.Sprintf("los pagos (%s) no coinciden con el total (%s)", e.Paid.StringFixed(2), e.Total.StringFixed(2))
}

func (e *PaymentMismatchError) Unwrap() error { return ErrPaymentMismatch }

// Difference devuelve pagos - total.
func (e *PaymentMismatchError) Difference() decimal.Decimal {
	return e.Paid.Sub(e.Total)
}

// ReversalRejectedError envuelve el motivo por el que un asiento compensatorio no pudo registrarse.
// errors.Is funciona tanto con ErrReversalRejected como con la causa original.
type ReversalRejectedError struct {
	Reason string
	Cause  error
}

func (e *ReversalRejectedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("reversión rechazada: %s: %v", e.Reason, e.Cause)
	}
	return "reversión rechazada: " + e.Reason
}

func (e *ReversalRejectedError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrReversalRejected, e.Cause}
	}
	return []error{ErrReversalRejected}
}

// NewReversalRejected construye el error; si cause ya es un rechazo de reversión se devuelve tal cual.
func NewReversalRejected(reason string, cause error) error {
	var rr *ReversalRejectedError
	if errors.As(cause, &rr) {
		return cause
	}
	return &ReversalRejectedError{Reason: reason, Cause: cause}
}
