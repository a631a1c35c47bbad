package twilio

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whizkidefos/employee-management-api/internal/testutil"
	"github.com/whizkidefos/employee-management-api/pkg/config"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	cfg := config.TwilioConfig{AccountSID: "AC1", AuthToken: "tok", FromNumber: "+447700900000", VerifyServiceSID: "VA1"}
	return newClient(cfg, testutil.RedirectClient(t, h))
}

func TestSendSMS(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2010-04-01/Accounts/AC1/Messages.json", r.URL.Path)
		sid, tok, _ := r.BasicAuth()
		assert.Equal(t, "AC1", sid)
		assert.Equal(t, "tok", tok)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "+447700900123", r.PostForm.Get("To"))
		assert.Equal(t, "+447700900000", r.PostForm.Get("From"))
		assert.Equal(t, "Nuevo turno", r.PostForm.Get("Body"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM1"}`))
	})

	assert.NoError(t, c.SendSMS(context.Background(), "+447700900123", "Nuevo turno"))
}

func TestCheckVerification(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/Services/VA1/VerificationCheck", r.URL.Path)
		require.NoError(t, r.ParseForm())
		status := "pending"
		if r.PostForm.Get("Code") == "123456" {
			status = "approved"
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sid":"VE1","status":"` + status + `"}`))
	})

	ok, err := c.CheckVerification(context.Background(), "+447700900123", "123456")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.CheckVerification(context.Background(), "+447700900123", "000000")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStartVerification_SinServicio(t *testing.T) {
	c := NewClient(config.TwilioConfig{AccountSID: "AC1", AuthToken: "tok"})

	assert.ErrorIs(t, c.StartVerification(context.Background(), "+44"), ErrVerifyNotConfigured)
}

func TestSendSMS_ErrorAPI(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":21211,"message":"invalid To","status":400}`))
	})

	assert.ErrorContains(t, c.SendSMS(context.Background(), "x", "y"), "invalid To")
}

func TestStartVerification_CanalSMS(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/Services/VA1/Verifications", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "+447700900123", r.PostForm.Get("To"))
		assert.Equal(t, "sms", r.PostForm.Get("Channel"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"VE1","status":"pending"}`))
	})

	assert.NoError(t, c.StartVerification(context.Background(), "+447700900123"))
}

func TestSendSMS_ContextoCancelado(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) { calls++ })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, c.SendSMS(ctx, "+447700900123", "x"), context.Canceled)
	assert.Zero(t, calls)
}
