package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de Payment.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

var PaymentStatuses = []string{PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded}

// Métodos de pago.
const (
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodStripe       = "stripe"
	PaymentMethodOther        = "other"
)

// Payment movimiento económico asociado a un usuario y, opcionalmente, a un turno o inscripción.
type Payment struct {
	ID                string            `json:"id" bson:"_id"`
	UserID            string            `json:"userId" bson:"userId"`
	ShiftID           string            `json:"shiftId,omitempty" bson:"shiftId,omitempty"`
	EnrollmentID      string            `json:"enrollmentId,omitempty" bson:"enrollmentId,omitempty"`
	Amount            decimal.Decimal   `json:"amount" bson:"amount"`
	Currency          string            `json:"currency" bson:"currency"`
	Status            string            `json:"status" bson:"status"`
	Method            string            `json:"method" bson:"method"`
	ProviderPaymentID string            `json:"providerPaymentId,omitempty" bson:"providerPaymentId,omitempty"`
	Description       string            `json:"description,omitempty" bson:"description,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty" bson:"metadata,omitempty"`
	RefundReason      string            `json:"refundReason,omitempty" bson:"refundReason,omitempty"`
	RefundedAt        *time.Time        `json:"refundedAt,omitempty" bson:"refundedAt,omitempty"`
	PaidAt            *time.Time        `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	Version           int64             `json:"version" bson:"version"`
	CreatedAt         time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt" bson:"updatedAt"`
}
