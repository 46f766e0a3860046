package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jhoicas/comercial-api/internal/application/dto"
	"github.com/jhoicas/comercial-api/internal/domain"
)

var moneyPrinter = message.NewPrinter(language.MustParse("es-CO"))

// formatMoney formatea un importe con separadores es-CO (1.234,50).
func formatMoney(d decimal.Decimal) string {
	return moneyPrinter.Sprintf("$ %v", number.Decimal(d.InexactFloat64(), number.Scale(2)))
}

// mapError traduce un error de dominio a status HTTP + cuerpo. Los errores de infraestructura
// se responden con un mensaje genérico.
func mapError(err error) (int, dto.ErrorResponse) {
	var (
		rr     *domain.ReversalRejectedError
		stock  *domain.InsufficientStockError
		credit *domain.CreditLimitExceededError
		pay    *domain.PaymentMismatchError
		verrs  validator.ValidationErrors
	)
	switch {
	case errors.As(err, &rr):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "REVERSAL_REJECTED", Message: "no se pudo revertir: " + rr.Reason}
	case errors.As(err, &stock):
		return fiber.StatusConflict, dto.ErrorResponse{
			Code: "INSUFFICIENT_STOCK",
			Message: fmt.Sprintf("stock insuficiente para el producto %s: disponible %s, solicitado %s",
				stock.ProductID, stock.Available.String(), stock.Requested.String()),
		}
	case errors.As(err, &credit):
		return fiber.StatusConflict, dto.ErrorResponse{
			Code:    "CREDIT_LIMIT_EXCEEDED",
			Message: fmt.Sprintf("límite de crédito excedido: disponible %s, solicitado %s", formatMoney(credit.Available()), formatMoney(credit.Requested)),
		}
	case errors.As(err, &pay):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{
			Code:    "PAYMENT_MISMATCH",
			Message: fmt.Sprintf("los pagos (%s) no coinciden con el total (%s)", formatMoney(pay.Paid), formatMoney(pay.Total)),
		}
	case errors.As(err, &verrs):
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field()+" ("+fe.Tag()+")")
		}
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: "campos inválidos: " + strings.Join(fields, ", ")}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"}
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "no autorizado"}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"}
	case errors.Is(err, domain.ErrAlreadyCancelled):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "ALREADY_CANCELLED", Message: "el registro ya fue anulado"}
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"}
	case errors.Is(err, domain.ErrCreditLimitExceeded):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CREDIT_LIMIT_EXCEEDED", Message: "límite de crédito excedido"}
	case errors.Is(err, domain.ErrCreditAccountDisabled):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{Code: "CREDIT_ACCOUNT_DISABLED", Message: "el cliente no tiene cuenta corriente habilitada"}
	case errors.Is(err, domain.ErrPaymentMismatch):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{Code: "PAYMENT_MISMATCH", Message: "los pagos no coinciden con el total"}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: "el recurso ya existe"}
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto de concurrencia, reintente la operación"}
	case errors.Is(err, domain.ErrConfigurationMissing):
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "CONFIGURATION_MISSING", Message: "falta configuración del sistema (numeración de documentos)"}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno, intente más tarde"}
}

// errorWriter responde errores y registra los 5xx.
type errorWriter struct {
	log zerolog.Logger
}

func (w errorWriter) write(c *fiber.Ctx, err error) error {
	status, body := mapError(err)
	if status >= fiber.StatusInternalServerError {
		w.log.Error().Err(err).Str("path", c.Path()).Str("code", body.Code).Msg("error en la petición")
	}
	return c.Status(status).JSON(body)
}
