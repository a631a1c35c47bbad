package dto

import (
	"github.com/shopspring/decimal"

	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
)

// CreatePaymentIntentRequest importe en libras.
type CreatePaymentIntentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" validate:"max=500"`
	ShiftID     string          `json:"shiftId" validate:"max=64"`
	// IdempotencyKey opcional: reintentos del cliente con la misma clave reutilizan la intención.
	IdempotencyKey string `json:"idempotencyKey" validate:"omitempty,max=200"`
}

// PaymentIntentResponse datos para completar el pago en el cliente.
type PaymentIntentResponse struct {
	PaymentIntentID string          `json:"paymentIntentId"`
	ClientSecret    string          `json:"clientSecret"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
}

// RefundRequest motivo del reembolso.
type RefundRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// PaymentListResponse historial paginado.
type PaymentListResponse struct {
	Items []*entity.Payment `json:"items"`
	Page  PageResponse      `json:"page"`
}

// PaymentSummaryResponse totales por estado (admin).
type PaymentSummaryResponse struct {
	Totals    map[string]decimal.Decimal `json:"totals"`
	Formatted map[string]string          `json:"formatted"`
}

// WebhookResponse acuse de recibo para la pasarela.
type WebhookResponse struct {
	Received  bool `json:"received"`
	Duplicate bool `json:"duplicate,omitempty"`
}

// RecordShiftPaymentRequest referencia externa del pago de un turno (transferencia, nómina).
type RecordShiftPaymentRequest struct {
	Reference string `json:"reference" validate:"max=200"`
}
