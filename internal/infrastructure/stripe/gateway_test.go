package stripe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whizkidefos/employee-management-api/internal/application/ports"
	"github.com/whizkidefos/employee-management-api/pkg/config"
)

const secret = "whsec_test"

var payload = []byte(`{
  "id": "evt_1",
  "type": "payment_intent.payment_failed",
  "created": 1760000000,
  "data": {"object": {
    "id": "pi_1",
    "amount": 4999,
    "currency": "gbp",
    "metadata": {"userId": "u1", "type": "course_enrollment"},
    "last_payment_error": {"message": "card declined"}
  }}
}`)

func newTestGateway(base string) *Gateway {
	return NewGateway(config.StripeConfig{SecretKey: "sk_test", WebhookSecret: secret, APIBase: base})
}

func TestParseEvent_FirmaValida(t *testing.T) {
	now := time.Now()
	g := newTestGateway("")

	ev, err := g.ParseEvent(payload, SignatureHeader(secret, now, payload))
	require.NoError(t, err)

	assert.Equal(t, "evt_1", ev.ID)
	assert.Equal(t, ports.EventPaymentFailed, ev.Type)
	assert.Equal(t, "pi_1", ev.IntentID)
	assert.Equal(t, int64(4999), ev.AmountMinor)
	assert.Equal(t, "u1", ev.Metadata["userId"])
	assert.Equal(t, "card declined", ev.FailureMessage)
	assert.Equal(t, time.Unix(1760000000, 0).UTC(), ev.Created)
}

func TestParseEvent_Rechazos(t *testing.T) {
	now := time.Now()
	g := newTestGateway("")

	tests := []struct {
		name   string
		header string
		want   error
	}{
		{"sin cabecera", "", ErrInvalidSignature},
		{"otro secreto", SignatureHeader("whsec_other", now, payload), ErrInvalidSignature},
		{"antigua", SignatureHeader(secret, now.Add(-6*time.Minute), payload), ErrStaleSignature},
		{"basura", "t=abc,v1=zz", ErrInvalidSignature},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.ParseEvent(payload, tt.header)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseEvent_PayloadAlterado(t *testing.T) {
	now := time.Now()
	g := newTestGateway("")
	header := SignatureHeader(secret, now, payload)

	tampered := append([]byte{}, payload...)
	tampered[10] = 'X'
	_, err := g.ParseEvent(tampered, header)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestCreatePaymentIntent_EnviaFormulario(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		assert.Equal(t, "enrollment-e1", r.Header.Get("Idempotency-Key"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "2150", r.PostForm.Get("amount"))
		assert.Equal(t, "gbp", r.PostForm.Get("currency"))
		assert.Equal(t, "e1", r.PostForm.Get("metadata[enrollmentId]"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pi_9","client_secret":"pi_9_secret","status":"requires_payment_method"}`))
	}))
	defer srv.Close()

	g := newTestGateway(srv.URL)
	pi, err := g.CreatePaymentIntent(context.Background(), ports.PaymentIntentInput{
		AmountMinor:    2150,
		Currency:       "GBP",
		Metadata:       map[string]string{"enrollmentId": "e1"},
		IdempotencyKey: "enrollment-e1",
	})
	require.NoError(t, err)
	assert.Equal(t, "pi_9", pi.ID)
	assert.Equal(t, "pi_9_secret", pi.ClientSecret)
}

func TestRefund_ErrorAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"already refunded"}}`))
	}))
	defer srv.Close()

	_, err := newTestGateway(srv.URL).Refund(context.Background(), "pi_1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already refunded")
}

func TestRefund_ClaveIdempotenteEstable(t *testing.T) {
	var keys []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/refunds", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "pi_1", r.PostForm.Get("payment_intent"))
		keys = append(keys, r.Header.Get("Idempotency-Key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"re_1","status":"succeeded"}`))
	}))
	defer srv.Close()

	g := newTestGateway(srv.URL)
	for i := 0; i < 2; i++ {
		id, err := g.Refund(context.Background(), "pi_1")
		require.NoError(t, err)
		assert.Equal(t, "re_1", id)
	}
	assert.Equal(t, []string{"refund-pi_1", "refund-pi_1"}, keys)
}
