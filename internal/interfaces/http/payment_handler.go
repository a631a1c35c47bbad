package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/whizkidefos/employee-management-api/internal/application/dto"
	"github.com/whizkidefos/employee-management-api/internal/application/usecase"
)

// StripeSignatureHeader cabecera con la firma del webhook.
const StripeSignatureHeader = "Stripe-Signature"

// PaymentHandler pagos, webhook de la pasarela y reembolsos.
type PaymentHandler struct {
	uc *usecase.PaymentUseCase
}

// NewPaymentHandler construye el handler de pagos.
func NewPaymentHandler(uc *usecase.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

// CreateIntent godoc
// @Summary      Crear intento de pago
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        body  body  dto.CreatePaymentIntentRequest  true  "importe en libras"
// @Success      201   {object}  dto.PaymentIntentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/payments/create-payment-intent [post]
func (h *PaymentHandler) CreateIntent(c *fiber.Ctx) error {
	var in dto.CreatePaymentIntentRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.CreateIntent(c.UserContext(), actor(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Webhook godoc
// @Summary      Webhook de la pasarela de pagos
// @Description  Público; se autentica con la firma Stripe-Signature sobre el cuerpo sin modificar.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.WebhookResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/payments/webhook [post]
func (h *PaymentHandler) Webhook(c *fiber.Ctx) error {
	// c.Body() se reutiliza por fasthttp; la firma se verifica sobre una copia.
	payload := append([]byte(nil), c.Body()...)
	out, err := h.uc.HandleWebhook(c.UserContext(), payload, c.Get(StripeSignatureHeader))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Mi historial de pagos
// @Tags         payments
// @Produce      json
// @Security     Bearer
// @Param        limit   query  int  false  "límite"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.PaymentListResponse
// @Router       /api/payments/history [get]
func (h *PaymentHandler) History(c *fiber.Ctx) error {
	var q dto.PageRequest
	if err := parseQuery(c, &q); err != nil {
		return err
	}
	out, err := h.uc.History(c.UserContext(), GetUserID(c), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener pago
// @Tags         payments
// @Produce      json
// @Security     Bearer
// @Param        id   path  string  true  "ID del pago"
// @Success      200  {object}  entity.Payment
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/payments/history/{id} [get]
func (h *PaymentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// RecordShiftPayment godoc
// @Summary      Registrar pago de un turno completado
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path  string                         true   "ID del turno"
// @Param        body  body  dto.RecordShiftPaymentRequest  false  "referencia"
// @Success      201   {object}  entity.Payment
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/payments/shifts/{id} [post]
func (h *PaymentHandler) RecordShiftPayment(c *fiber.Ctx) error {
	var in dto.RecordShiftPaymentRequest
	if err := parseOptionalBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.RecordShiftPayment(c.UserContext(), c.Params("id"), in.Reference)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Refund godoc
// @Summary      Reembolsar pago
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path  string             true   "ID del pago"
// @Param        body  body  dto.RefundRequest  false  "motivo"
// @Success      200   {object}  entity.Payment
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/payments/{id}/refund [post]
func (h *PaymentHandler) Refund(c *fiber.Ctx) error {
	var in dto.RefundRequest
	if err := parseOptionalBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Refund(c.UserContext(), c.Params("id"), in.Reason)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Totales por estado
// @Tags         payments
// @Produce      json
// @Security     Bearer
// @Success      200  {object}  dto.PaymentSummaryResponse
// @Router       /api/payments/summary [get]
func (h *PaymentHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}
