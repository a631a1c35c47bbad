package fcm

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/whizkidefos/employee-management-api/internal/application/ports"
	"github.com/whizkidefos/employee-management-api/internal/testutil"
)

type sentMessage struct {
	Message struct {
		Token        string `json:"token"`
		Notification struct {
			Title string `json:"title"`
			Body  string `json:"body"`
		} `json:"notification"`
		Data map[string]string `json:"data"`
	} `json:"message"`
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	c, err := newClient(context.Background(), "p", option.WithHTTPClient(testutil.RedirectClient(t, h)))
	require.NoError(t, err)
	return c
}

func TestSendPush_DevuelveTokensInvalidos(t *testing.T) {
	var got []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/projects/p/messages:send", r.URL.Path)
		var m sentMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&m))
		got = append(got, m.Message.Token)
		assert.Equal(t, "Turno asignado", m.Message.Notification.Title)
		assert.Equal(t, "SHIFT_ASSIGNED", m.Message.Data["type"])
		w.Header().Set("Content-Type", "application/json")
		if m.Message.Token == "dead" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"status":"NOT_FOUND","message":"gone","details":[` +
				`{"@type":"type.googleapis.com/google.firebase.fcm.v1.FcmError","errorCode":"UNREGISTERED"}]}}`))
			return
		}
		_, _ = w.Write([]byte(`{"name":"projects/p/messages/1"}`))
	})

	invalid, err := c.SendPush(context.Background(), []string{"ok", "dead"}, ports.PushMessage{
		Title: "Turno asignado", Body: "x", Data: map[string]string{"type": "SHIFT_ASSIGNED"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"dead"}, invalid)
	assert.Equal(t, []string{"ok", "dead"}, got)
}

func TestSendPush_FalloTotal(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"status":"PERMISSION_DENIED","message":"boom"}}`))
	})

	invalid, err := c.SendPush(context.Background(), []string{"a"}, ports.PushMessage{Title: "t"})

	assert.ErrorContains(t, err, "boom")
	assert.Empty(t, invalid)
}
