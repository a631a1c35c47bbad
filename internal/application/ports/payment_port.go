package ports

import (
	"context"
	"time"
)

// PaymentIntentInput datos para crear una intención de pago. Amount en unidades menores (peniques).
// IdempotencyKey identifica la operación de negocio: dos llamadas con la misma clave
// devuelven la misma intención.
type PaymentIntentInput struct {
	AmountMinor    int64
	Currency       string
	Description    string
	Metadata       map[string]string
	IdempotencyKey string
}

// PaymentIntent respuesta de la pasarela.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Status       string
}

// PaymentEvent evento de webhook ya verificado y decodificado.
type PaymentEvent struct {
	ID             string
	Type           string
	IntentID       string
	AmountMinor    int64
	Currency       string
	Metadata       map[string]string
	FailureMessage string
	Created        time.Time
}

// Tipos de evento que procesa el webhook.
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

// PaymentGateway pasarela de pagos (Stripe).
type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, in PaymentIntentInput) (*PaymentIntent, error)
	Refund(ctx context.Context, intentID string) (refundID string, err error)
	// ParseEvent verifica la firma del webhook y decodifica el evento.
	ParseEvent(payload []byte, signatureHeader string) (*PaymentEvent, error)
}

// IdempotencyStore marca claves ya procesadas. Claim devuelve false si la clave existía;
// Release la borra cuando el procesamiento falló.
type IdempotencyStore interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}
