package realtime

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
)

type tokenAuth map[string]string

func (a tokenAuth) Authenticate(_ context.Context, token string) (*entity.User, error) {
	id, ok := a[token]
	if !ok {
		return nil, errors.New("invalid")
	}
	return &entity.User{ID: id}, nil
}

type frame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func startServer(t *testing.T) (*Hub, string) {
	t.Helper()
	hub := NewHub(zerolog.Nop())
	s := NewServer(":0", hub, tokenAuth{"tok-ana": "ana"}, nil, zerolog.Nop())
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		hub.Close()
		ts.Close()
	})
	return hub, "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func TestServer_EntregaFramesAlUsuario(t *testing.T) {
	hub, url := startServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(url+"?token=tok-ana", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.IsConnected("ana") }, 2*time.Second, 10*time.Millisecond)
	assert.False(t, hub.IsConnected("bob"))

	require.NoError(t, hub.SendToUser("ana", frame{Type: "SHIFT_ASSIGNED", Message: "hola"}))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got frame
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "SHIFT_ASSIGNED", got.Type)
	assert.Equal(t, "hola", got.Message)
}

func TestServer_TokenInvalido(t *testing.T) {
	_, url := startServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(url+"?token=nope", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHub_DesconexionLimpiaMapa(t *testing.T) {
	hub, url := startServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(url+"?token=tok-ana", nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.IsConnected("ana") }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool { return !hub.IsConnected("ana") }, 2*time.Second, 10*time.Millisecond)
	assert.ErrorIs(t, hub.SendToUser("ana", frame{Type: "X"}), ErrNotConnected)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://app.example.com"})
	r := httptest.NewRequest(http.MethodGet, "/ws", nil)

	r.Header.Set("Origin", "https://app.example.com")
	assert.True(t, check(r))
	r.Header.Set("Origin", "https://evil.example.com")
	assert.False(t, check(r))
	assert.True(t, originChecker(nil)(r))
}
