package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/comercial-api/internal/application/cash"
	"github.com/jhoicas/comercial-api/internal/application/dto"
	"github.com/jhoicas/comercial-api/internal/domain/entity"
)

// CashHandler arqueos de caja.
type CashHandler struct {
	uc   *cash.UseCase
	errs errorWriter
}

// NewCashHandler construye el handler.
func NewCashHandler(uc *cash.UseCase, log zerolog.Logger) *CashHandler {
	return &CashHandler{uc: uc, errs: errorWriter{log: log}}
}

// Close godoc
// @Summary      Cerrar caja
// @Description  Calcula el efectivo esperado de la ventana [window_start, window_end) y la diferencia con lo contado.
// @Tags         cash
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CloseCashRequest  true  "ventana, saldo inicial, contado y movimientos manuales"
// @Success      201   {object}  dto.CloseCashResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cash/closings [post]
func (h *CashHandler) Close(c *fiber.Ctx) error {
	var in dto.CloseCashRequest
	if !bindJSON(c, &in) {
		return nil
	}
	items := make([]entity.CashLineItem, 0, len(in.LineItems))
	for _, li := range in.LineItems {
		items = append(items, entity.CashLineItem{Concept: li.Concept, Amount: li.Amount})
	}
	res, err := h.uc.CloseCash(c.Context(), ActorFrom(c), cash.CloseInput{
		Register:       in.Register,
		WindowStart:    in.WindowStart,
		WindowEnd:      in.WindowEnd,
		OpeningBalance: in.OpeningBalance,
		CountedAmount:  in.CountedAmount,
		LineItems:      items,
	})
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CloseCashResponse{
		ID:           res.ID,
		ExpectedCash: res.ExpectedCash,
		Discrepancy:  res.Discrepancy,
	})
}

// List godoc
// @Summary      Listar arqueos
// @Tags         cash
// @Security     Bearer
// @Produce      json
// @Param        register  query  string  false  "caja (vacío = todas)"
// @Param        limit     query  int     false  "límite"
// @Param        offset    query  int     false  "desplazamiento"
// @Success      200  {array}   dto.CashClosingResponse
// @Router       /api/cash/closings [get]
func (h *CashHandler) List(c *fiber.Ctx) error {
	page := pageFrom(c)
	list, err := h.uc.ListClosings(c.Context(), c.Query("register"), page.Limit, page.Offset)
	if err != nil {
		return h.errs.write(c, err)
	}
	out := make([]*dto.CashClosingResponse, 0, len(list))
	for _, cl := range list {
		out = append(out, dto.CashClosingFromEntity(cl))
	}
	return c.JSON(out)
}
