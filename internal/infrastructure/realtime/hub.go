// Package realtime canal WebSocket de notificaciones. El Hub es el único estado
// mutable compartido del proceso: usuario -> conexiones abiertas.
package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/whizkidefos/employee-management-api/internal/application/ports"
)

// ErrNotConnected el usuario no tiene conexiones abiertas.
var ErrNotConnected = errors.New("usuario sin conexión en tiempo real")

var _ ports.RealtimeSender = (*Hub)(nil)

type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[string]*Client
	log     zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[string]*Client),
		log:     log.With().Str("component", "realtime").Logger(),
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	conns, ok := h.clients[c.userID]
	if !ok {
		conns = make(map[string]*Client)
		h.clients[c.userID] = conns
	}
	conns[c.ID] = c
	n := len(conns)
	h.mu.Unlock()

	h.log.Info().Str("user_id", c.userID).Str("client", c.ID).Int("connections", n).Msg("ws: conectado")
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if conns, ok := h.clients[c.userID]; ok {
		delete(conns, c.ID)
		if len(conns) == 0 {
			delete(h.clients, c.userID)
		}
	}
	h.mu.Unlock()
	c.close()

	h.log.Info().Str("user_id", c.userID).Str("client", c.ID).Msg("ws: desconectado")
}

func (h *Hub) IsConnected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// Connections número de conexiones abiertas de userID.
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// SendToUser serializa una vez y encola en cada conexión del usuario. Una
// conexión que no acepta el frame a tiempo se desconecta.
func (h *Hub) SendToUser(userID string, frame any) error {
	msg, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("serializar frame: %w", err)
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients[userID]))
	for _, c := range h.clients[userID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	if len(targets) == 0 {
		return ErrNotConnected
	}
	delivered := 0
	for _, c := range targets {
		if c.enqueue(msg) {
			delivered++
			continue
		}
		h.log.Warn().Str("user_id", userID).Str("client", c.ID).Msg("ws: búfer lleno, desconectando")
		h.unregister(c)
	}
	if delivered == 0 {
		return ErrNotConnected
	}
	return nil
}

// Close cierra todas las conexiones abiertas.
func (h *Hub) Close() {
	h.mu.Lock()
	all := h.clients
	h.clients = make(map[string]map[string]*Client)
	h.mu.Unlock()

	for _, conns := range all {
		for _, c := range conns {
			c.close()
		}
	}
}
