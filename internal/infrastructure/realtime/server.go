package realtime

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
)

// Authenticator valida el token de acceso de la URL de conexión.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*entity.User, error)
}

// Server listener HTTP propio (WS_PORT) que atiende /ws?token=<access>.
type Server struct {
	hub      *Hub
	auth     Authenticator
	upgrader websocket.Upgrader
	srv      *http.Server
	log      zerolog.Logger
}

func NewServer(addr string, hub *Hub, auth Authenticator, allowedOrigins []string, log zerolog.Logger) *Server {
	s := &Server{hub: hub, auth: auth, log: log.With().Str("component", "realtime").Logger()}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	s.srv = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	return s
}

// Handler expuesto para pruebas.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.srv.Addr).Msg("servidor WebSocket escuchando")
	err := s.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "token requerido", http.StatusUnauthorized)
		return
	}
	user, err := s.auth.Authenticate(r.Context(), token)
	if err != nil || user == nil {
		http.Error(w, "token inválido", http.StatusUnauthorized)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade ya respondió al cliente.
		s.log.Debug().Err(err).Msg("ws: upgrade fallido")
		return
	}
	c := newClient(user.ID, conn, s.hub)
	s.hub.register(c)
	go c.writeLoop()
	go c.readLoop()
}

// originChecker lista vacía o "*" aceptan cualquier origen.
func originChecker(allowed []string) func(*http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	if len(set) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
