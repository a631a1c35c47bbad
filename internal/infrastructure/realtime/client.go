package realtime

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = int64(4 * 1024)
	sendBufSize    = 64
	sendTimeout    = 2 * time.Second
)

// Client una conexión WebSocket de un usuario. Un usuario puede tener varias.
type Client struct {
	ID     string
	userID string
	conn   *websocket.Conn
	hub    *Hub
	egress chan []byte

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

func newClient(userID string, conn *websocket.Conn, h *Hub) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		ID:     uuid.NewString(),
		userID: userID,
		conn:   conn,
		hub:    h,
		egress: make(chan []byte, sendBufSize),
		ctx:    ctx,
		cancel: cancel,
	}
}

// readLoop el canal es solo de salida: lo entrante se descarta, pero hay que
// leer para procesar pong y cierres.
func (c *Client) readLoop() {
	defer c.hub.unregister(c)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			var ne net.Error
			switch {
			case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
			case errors.As(err, &ne) && ne.Timeout():
				c.hub.log.Debug().Str("client", c.ID).Msg("ws: sin pong, cerrando")
			default:
				c.hub.log.Debug().Err(err).Str("client", c.ID).Msg("ws: lectura terminada")
			}
			return
		}
	}
}

func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case msg := <-c.egress:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.hub.log.Debug().Err(err).Str("client", c.ID).Msg("ws: escritura fallida")
				c.close()
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				c.close()
				return
			}
		}
	}
}

// enqueue false si la conexión está cerrada o el búfer sigue lleno tras sendTimeout.
func (c *Client) enqueue(msg []byte) bool {
	select {
	case <-c.ctx.Done():
		return false
	default:
	}
	select {
	case c.egress <- msg:
		return true
	case <-c.ctx.Done():
		return false
	case <-time.After(sendTimeout):
		return false
	}
}

func (c *Client) close() {
	c.once.Do(c.cancel)
}
