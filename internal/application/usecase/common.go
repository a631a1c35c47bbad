package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/whizkidefos/employee-management-api/internal/application/notification"
	"github.com/whizkidefos/employee-management-api/internal/domain"
	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
)

// Actor usuario autenticado que ejecuta la operación.
type Actor struct {
	UserID  string
	JobRole string
	Admin   bool
}

// ActorFrom construye el Actor a partir del usuario cargado por el middleware.
func ActorFrom(u *entity.User) Actor {
	return Actor{UserID: u.ID, JobRole: u.JobRole, Admin: u.IsAdmin}
}

// notify envía la notificación y registra el error sin propagarlo: las
// notificaciones nunca deshacen la escritura principal.
func notify(ctx context.Context, n notification.Notifier, log zerolog.Logger, userID string, ev notification.Event) {
	if n == nil || userID == "" {
		return
	}
	if _, err := n.Dispatch(ctx, userID, ev); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Str("event", ev.Type).Msg("notificación no entregada")
	}
}

// ParseDate acepta RFC 3339 o YYYY-MM-DD (medianoche UTC).
func ParseDate(field, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, domain.Validation("fecha inválida", domain.FieldError{Field: field, Message: "use YYYY-MM-DD o RFC 3339"})
	}
	return &t, nil
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}
