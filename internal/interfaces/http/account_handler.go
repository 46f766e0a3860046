package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/comercial-api/internal/application/account"
	"github.com/jhoicas/comercial-api/internal/application/dto"
	"github.com/jhoicas/comercial-api/internal/domain"
)

// AccountHandler cuenta corriente de clientes: ajustes, reversiones y extracto.
type AccountHandler struct {
	uc   *account.UseCase
	errs errorWriter
}

// NewAccountHandler construye el handler.
func NewAccountHandler(uc *account.UseCase, log zerolog.Logger) *AccountHandler {
	return &AccountHandler{uc: uc, errs: errorWriter{log: log}}
}

// PostAdjustment godoc
// @Summary      Ajuste manual de cuenta corriente
// @Tags         accounts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        customerId  path  string                 true  "ID del cliente"
// @Param        body        body  dto.AdjustmentRequest  true  "direction, amount, concept"
// @Success      201   {object}  dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/accounts/{customerId}/adjustments [post]
func (h *AccountHandler) PostAdjustment(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if !bindJSON(c, &in) {
		return nil
	}
	res, err := h.uc.PostAdjustment(c.Context(), ActorFrom(c), account.AdjustmentInput{
		CustomerID: c.Params("customerId"),
		Direction:  in.Direction,
		Amount:     in.Amount,
		Concept:    in.Concept,
	})
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AdjustmentResponse{MovementID: res.MovementID, NewBalance: res.NewBalance})
}

// Reverse godoc
// @Summary      Revertir un asiento manual
// @Tags         accounts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del asiento"
// @Param        body  body  dto.ReverseMovementRequest  true  "motivo"
// @Success      201   {object}  dto.AdjustmentResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/accounts/movements/{id}/reverse [post]
func (h *AccountHandler) Reverse(c *fiber.Ctx) error {
	var in dto.ReverseMovementRequest
	if !bindJSON(c, &in) {
		return nil
	}
	res, err := h.uc.ReverseMovement(c.Context(), ActorFrom(c), c.Params("id"), in.Reason)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AdjustmentResponse{MovementID: res.MovementID, NewBalance: res.NewBalance})
}

// Statement godoc
// @Summary      Extracto de cuenta corriente
// @Tags         accounts
// @Security     Bearer
// @Produce      json
// @Param        customerId  path   string  true   "ID del cliente"
// @Param        from        query  string  false  "desde (RFC3339)"
// @Param        to          query  string  false  "hasta, exclusivo (RFC3339)"
// @Param        limit       query  int     false  "límite"
// @Param        offset      query  int     false  "desplazamiento"
// @Success      200   {object}  dto.StatementResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/accounts/{customerId}/movements [get]
func (h *AccountHandler) Statement(c *fiber.Ctx) error {
	from, to, err := timeRange(c)
	if err != nil {
		return h.errs.write(c, err)
	}
	page := pageFrom(c)
	customer, movs, err := h.uc.Statement(c.Context(), c.Params("customerId"), from, to, page.Limit, page.Offset)
	if err != nil {
		return h.errs.write(c, err)
	}
	out := dto.StatementResponse{
		CustomerID:  customer.ID,
		Balance:     customer.Balance,
		CreditLimit: customer.CreditLimit,
		Items:       make([]*dto.AccountMovementResponse, 0, len(movs)),
		Page:        page.Response(len(movs)),
	}
	for _, m := range movs {
		out.Items = append(out.Items, dto.AccountMovementFromEntity(m))
	}
	return c.JSON(out)
}

// timeRange lee from/to (RFC3339) de la query; ambos opcionales.
func timeRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	parse := func(name string) (*time.Time, error) {
		raw := c.Query(name)
		if raw == "" {
			return nil, nil
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		return &t, nil
	}
	if from, err = parse("from"); err != nil {
		return nil, nil, err
	}
	if to, err = parse("to"); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}
