// Package stripe adaptador de Stripe (stripe-go) para intenciones de pago,
// reembolsos y verificación de webhooks.
package stripe

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	stripego "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/whizkidefos/employee-management-api/internal/application/ports"
	"github.com/whizkidefos/employee-management-api/pkg/config"
)

// SignatureTolerance antigüedad máxima aceptada de un webhook firmado.
const SignatureTolerance = 5 * time.Minute

var (
	ErrInvalidSignature = errors.New("firma de webhook inválida")
	ErrStaleSignature   = errors.New("webhook fuera de la ventana de tolerancia")
)

var _ ports.PaymentGateway = (*Gateway)(nil)

// Gateway cliente de la API de Stripe.
type Gateway struct {
	api           *client.API
	webhookSecret string
}

func NewGateway(cfg config.StripeConfig) *Gateway {
	backendCfg := &stripego.BackendConfig{
		HTTPClient:        &http.Client{Timeout: 15 * time.Second},
		MaxNetworkRetries: stripego.Int64(2),
		LeveledLogger:     &stripego.LeveledLogger{Level: stripego.LevelNull},
	}
	if base := strings.TrimRight(cfg.APIBase, "/"); base != "" {
		backendCfg.URL = stripego.String(base)
	}
	backend := stripego.GetBackendWithConfig(stripego.APIBackend, backendCfg)

	api := &client.API{}
	api.Init(cfg.SecretKey, &stripego.Backends{API: backend, Connect: backend, Uploads: backend})
	return &Gateway{api: api, webhookSecret: cfg.WebhookSecret}
}

func (g *Gateway) CreatePaymentIntent(ctx context.Context, in ports.PaymentIntentInput) (*ports.PaymentIntent, error) {
	params := &stripego.PaymentIntentParams{
		Amount:   stripego.Int64(in.AmountMinor),
		Currency: stripego.String(strings.ToLower(in.Currency)),
		AutomaticPaymentMethods: &stripego.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripego.Bool(true),
		},
	}
	params.Context = ctx
	if in.Description != "" {
		params.Description = stripego.String(in.Description)
	}
	for k, v := range in.Metadata {
		params.AddMetadata(k, v)
	}
	if in.IdempotencyKey != "" {
		params.SetIdempotencyKey(in.IdempotencyKey)
	}
	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, apiError("payment_intents", err)
	}
	return &ports.PaymentIntent{ID: pi.ID, ClientSecret: pi.ClientSecret, Status: string(pi.Status)}, nil
}

// Refund un reembolso por intención; la clave evita reembolsar dos veces la misma.
func (g *Gateway) Refund(ctx context.Context, intentID string) (string, error) {
	params := &stripego.RefundParams{PaymentIntent: stripego.String(intentID)}
	params.Context = ctx
	params.SetIdempotencyKey("refund-" + intentID)
	r, err := g.api.Refunds.New(params)
	if err != nil {
		return "", apiError("refunds", err)
	}
	return r.ID, nil
}

func apiError(op string, err error) error {
	var se *stripego.Error
	if errors.As(err, &se) && se.Msg != "" {
		return fmt.Errorf("stripe %s: %d %s", op, se.HTTPStatusCode, se.Msg)
	}
	return fmt.Errorf("stripe %s: %w", op, err)
}

// intentObject campos de data.object que interesan de un PaymentIntent.
type intentObject struct {
	ID               string            `mapstructure:"id"`
	Amount           int64             `mapstructure:"amount"`
	Currency         string            `mapstructure:"currency"`
	Metadata         map[string]string `mapstructure:"metadata"`
	LastPaymentError *struct {
		Message string `mapstructure:"message"`
	} `mapstructure:"last_payment_error"`
}

// ParseEvent verifica la cabecera Stripe-Signature y decodifica el evento.
func (g *Gateway) ParseEvent(payload []byte, signatureHeader string) (*ports.PaymentEvent, error) {
	if g.webhookSecret == "" {
		return nil, ErrInvalidSignature
	}
	if err := webhook.ValidatePayloadWithTolerance(payload, signatureHeader, g.webhookSecret, SignatureTolerance); err != nil {
		if errors.Is(err, webhook.ErrTooOld) {
			return nil, ErrStaleSignature
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	var env stripego.Event
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("evento mal formado: %w", err)
	}

	var obj intentObject
	if env.Data != nil {
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &obj,
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(env.Data.Object); err != nil {
			return nil, fmt.Errorf("data.object: %w", err)
		}
	}

	ev := &ports.PaymentEvent{
		ID:          env.ID,
		Type:        string(env.Type),
		IntentID:    obj.ID,
		AmountMinor: obj.Amount,
		Currency:    obj.Currency,
		Metadata:    obj.Metadata,
	}
	if env.Created > 0 {
		ev.Created = time.Unix(env.Created, 0).UTC()
	}
	if obj.LastPaymentError != nil {
		ev.FailureMessage = obj.LastPaymentError.Message
	}
	if ev.Metadata == nil {
		ev.Metadata = map[string]string{}
	}
	return ev, nil
}

// SignatureHeader construye la cabecera Stripe-Signature para payload.
func SignatureHeader(secret string, at time.Time, payload []byte) string {
	sig := webhook.ComputeSignature(at, payload, secret)
	return "t=" + strconv.FormatInt(at.Unix(), 10) + ",v1=" + hex.EncodeToString(sig)
}
