package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/comercial-api/internal/application/documents"
	"github.com/jhoicas/comercial-api/internal/application/dto"
)

// DocumentHandler alta, consulta, entregas y anulaciones de documentos comerciales.
type DocumentHandler struct {
	uc   *documents.UseCase
	errs errorWriter
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(uc *documents.UseCase, log zerolog.Logger) *DocumentHandler {
	return &DocumentHandler{uc: uc, errs: errorWriter{log: log}}
}

// Create godoc
// @Summary      Emitir documento (venta, compra, presupuesto o cotización)
// @Description  Mueve stock, registra pagos y asigna número en una sola transacción.
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                     false  "clave de idempotencia"
// @Param        body             body    dto.CreateDocumentRequest  true   "documento"
// @Success      201   {object}  dto.DocumentCreatedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/documents [post]
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDocumentRequest
	if !bindJSON(c, &in) {
		return nil
	}
	input := documents.CreateDocumentInput{
		Type:           in.Type,
		CounterpartID:  in.CounterpartID,
		DeliveryPolicy: in.DeliveryPolicy,
		Discount:       in.Discount,
		Surcharge:      in.Surcharge,
		Notes:          in.Notes,
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, documents.LineInput{
			ProductID:   l.ProductID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		})
	}
	for _, p := range in.Payments {
		input.Payments = append(input.Payments, documents.PaymentInput{Method: p.Method, Amount: p.Amount})
	}
	res, err := h.uc.CreateDocument(c.Context(), ActorFrom(c), input)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.DocumentCreatedResponse{
		ID:     res.ID,
		Number: res.Number,
		Total:  res.Total,
		Status: res.Status,
	})
}

// GetByID godoc
// @Summary      Obtener documento con renglones y pagos
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [get]
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	doc, err := h.uc.GetDocument(c.Context(), c.Params("id"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(dto.DocumentFromEntity(doc))
}

// Cancel godoc
// @Summary      Anular documento
// @Description  Repone stock y revierte los pagos en cuenta corriente en una sola transacción.
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del documento"
// @Param        body  body  dto.CancelDocumentRequest  true  "motivo"
// @Success      200   {object}  dto.StatusResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/cancel [post]
func (h *DocumentHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelDocumentRequest
	if !bindJSON(c, &in) {
		return nil
	}
	res, err := h.uc.CancelDocument(c.Context(), ActorFrom(c), c.Params("id"), in.Reason)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(dto.StatusResponse{ID: res.ID, Status: res.Status})
}

// Deliver godoc
// @Summary      Registrar entrega parcial (presupuesto) o recepción (compra)
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID del documento"
// @Param        body  body  dto.DeliverRequest  true  "renglones y cantidades"
// @Success      200   {object}  dto.StatusResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/deliveries [post]
func (h *DocumentHandler) Deliver(c *fiber.Ctx) error {
	var in dto.DeliverRequest
	if !bindJSON(c, &in) {
		return nil
	}
	deliveries := make([]documents.LineDelivery, 0, len(in.Lines))
	for _, l := range in.Lines {
		deliveries = append(deliveries, documents.LineDelivery{LineID: l.LineID, Quantity: l.Quantity})
	}
	res, err := h.uc.DeliverPartial(c.Context(), ActorFrom(c), c.Params("id"), deliveries)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(dto.StatusResponse{ID: res.ID, Status: res.Status})
}

// VoidPayment godoc
// @Summary      Anular un pago del documento
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id         path  string                  true  "ID del documento"
// @Param        paymentId  path  string                  true  "ID del pago"
// @Param        body       body  dto.VoidPaymentRequest  true  "motivo"
// @Success      200   {object}  dto.StatusResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/payments/{paymentId}/void [post]
func (h *DocumentHandler) VoidPayment(c *fiber.Ctx) error {
	var in dto.VoidPaymentRequest
	if !bindJSON(c, &in) {
		return nil
	}
	res, err := h.uc.VoidPayment(c.Context(), ActorFrom(c), c.Params("id"), c.Params("paymentId"), in.Reason)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(dto.StatusResponse{ID: res.ID, Status: res.Status})
}
