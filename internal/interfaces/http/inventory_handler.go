package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/comercial-api/internal/application/dto"
	"github.com/jhoicas/comercial-api/internal/application/inventory"
)

// InventoryHandler maneja las peticiones HTTP de movimientos de stock (protegido).
type InventoryHandler struct {
	uc   *inventory.RegisterMovementUseCase
	errs errorWriter
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.RegisterMovementUseCase, log zerolog.Logger) *InventoryHandler {
	return &InventoryHandler{uc: uc, errs: errorWriter{log: log}}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento manual de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, kind (in|out|adjust), quantity, unit_cost (solo in), reason"
// @Success      201   {object}  dto.StockMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if !bindJSON(c, &in) {
		return nil
	}
	out, err := h.uc.RegisterMovementFromRequest(c.Context(), ActorFrom(c), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// StockCard godoc
// @Summary      Ficha de stock de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        from    query  string  false  "desde (RFC3339)"
// @Param        to      query  string  false  "hasta, exclusivo (RFC3339)"
// @Param        limit   query  int     false  "límite"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {object}  dto.StockCardResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/movements [get]
func (h *InventoryHandler) StockCard(c *fiber.Ctx) error {
	from, to, err := timeRange(c)
	if err != nil {
		return h.errs.write(c, err)
	}
	page := pageFrom(c)
	movs, err := h.uc.ListMovements(c.Context(), c.Params("id"), from, to, page.Limit, page.Offset)
	if err != nil {
		return h.errs.write(c, err)
	}
	out := dto.StockCardResponse{
		Items: make([]*dto.StockMovementResponse, 0, len(movs)),
		Page:  page.Response(len(movs)),
	}
	for _, m := range movs {
		out.Items = append(out.Items, dto.StockMovementFromEntity(m))
	}
	return c.JSON(out)
}
