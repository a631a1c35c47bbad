// Package notification reparte un evento lógico entre los canales de entrega
// (tiempo real, email, SMS y push). Cada canal es independiente: un fallo se
// registra y no afecta a los demás ni al llamador.
package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/whizkidefos/employee-management-api/internal/application/ports"
	"github.com/whizkidefos/employee-management-api/internal/domain"
	"github.com/whizkidefos/employee-management-api/internal/domain/repository"
)

// Tipos de evento.
const (
	TypeShiftAssigned    = "SHIFT_ASSIGNED"
	TypeShiftUnassigned  = "SHIFT_UNASSIGNED"
	TypeShiftCancelled   = "SHIFT_CANCELLED"
	TypeShiftUpdated     = "SHIFT_UPDATED"
	TypeShiftAvailable   = "SHIFT_AVAILABLE"
	TypeCourseEnrolled   = "COURSE_ENROLLED"
	TypeCourseCompleted  = "COURSE_COMPLETED"
	TypeDocumentUploaded = "DOCUMENT_UPLOADED"
	TypeDocumentReviewed = "DOCUMENT_REVIEWED"
	TypeDocumentExpiring = "DOCUMENT_EXPIRING"
	TypePaymentReceived  = "PAYMENT_RECEIVED"
	TypePaymentFailed    = "PAYMENT_FAILED"
	TypePaymentRefunded  = "PAYMENT_REFUNDED"
)

// Nombres de canal (logs e informe).
const (
	ChannelRealtime = "realtime"
	ChannelEmail    = "email"
	ChannelSMS      = "sms"
	ChannelPush     = "push"
)

// Event notificación lógica.
type Event struct {
	Type      string
	Subject   string
	Message   string
	Data      map[string]string
	Urgent    bool // habilita SMS
	SkipEmail bool
}

// Frame cuerpo JSON que recibe el cliente WebSocket.
type Frame struct {
	Type    string            `json:"type"`
	Subject string            `json:"subject"`
	Message string            `json:"message"`
	Data    map[string]string `json:"data,omitempty"`
	SentAt  time.Time         `json:"sentAt"`
}

// Report resultado de un envío: canales intentados, fallos y tokens eliminados.
type Report struct {
	mu           sync.Mutex
	Attempted    []string
	Failed       map[string]error
	PrunedTokens []string
}

func (r *Report) attempt(channel string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Attempted = append(r.Attempted, channel)
	if err != nil {
		if r.Failed == nil {
			r.Failed = map[string]error{}
		}
		r.Failed[channel] = err
	}
}

// Tried indica si el canal se intentó.
func (r *Report) Tried(channel string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.Attempted {
		if c == channel {
			return true
		}
	}
	return false
}

// Notifier contrato que consumen los casos de uso.
type Notifier interface {
	Dispatch(ctx context.Context, userID string, ev Event) (*Report, error)
	DispatchMatching(ctx context.Context, jobRole, location string, ev Event) int
}

// Channels adaptadores de salida. Un canal nil se considera no configurado y se omite.
type Channels struct {
	Realtime ports.RealtimeSender
	Email    ports.EmailSender
	SMS      ports.SMSSender
	Push     ports.PushSender
}

// Dispatcher implementación de Notifier. Se construye una vez en main y se inyecta.
type Dispatcher struct {
	users repository.UserRepository
	ch    Channels
	log   zerolog.Logger
	now   func() time.Time
}

var _ Notifier = (*Dispatcher)(nil)

// NewDispatcher construye el dispatcher. El hub de tiempo real debe existir antes.
func NewDispatcher(users repository.UserRepository, ch Channels, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{users: users, ch: ch, log: log, now: time.Now}
}

// Dispatch entrega ev al usuario por todos los canales aplicables y espera a que terminen.
// Solo devuelve error si el usuario no existe o no pudo cargarse; en ese caso no se intenta ningún canal.
func (d *Dispatcher) Dispatch(ctx context.Context, userID string, ev Event) (*Report, error) {
	user, err := d.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("notification: cargar usuario: %w", err)
	}
	if user == nil {
		return nil, domain.NotFound("usuario a notificar no encontrado")
	}

	report := &Report{}
	log := d.log.With().Str("user_id", userID).Str("event", ev.Type).Logger()
	var wg sync.WaitGroup
	run := func(channel string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := fn()
			report.attempt(channel, err)
			if err != nil {
				log.Warn().Err(err).Str("channel", channel).Msg("fallo en canal de notificación")
			}
		}()
	}

	if d.ch.Realtime != nil && d.ch.Realtime.IsConnected(userID) {
		frame := Frame{Type: ev.Type, Subject: ev.Subject, Message: ev.Message, Data: ev.Data, SentAt: d.now()}
		run(ChannelRealtime, func() error { return d.ch.Realtime.SendToUser(userID, frame) })
	}
	if d.ch.Email != nil && !ev.SkipEmail && user.Email != "" {
		run(ChannelEmail, func() error { return d.ch.Email.SendEmail(ctx, user.Email, ev.Subject, ev.Message) })
	}
	if d.ch.SMS != nil && ev.Urgent && user.PhoneNumber != "" {
		run(ChannelSMS, func() error { return d.ch.SMS.SendSMS(ctx, user.PhoneNumber, ev.Subject+": "+ev.Message) })
	}
	if d.ch.Push != nil && len(user.DeviceTokens) > 0 {
		tokens := append([]string(nil), user.DeviceTokens...)
		run(ChannelPush, func() error { return d.push(ctx, userID, tokens, ev, report) })
	}

	wg.Wait()
	log.Debug().Strs("channels", report.Attempted).Int("failed", len(report.Failed)).Msg("notificación enviada")
	return report, nil
}

func (d *Dispatcher) push(ctx context.Context, userID string, tokens []string, ev Event, report *Report) error {
	invalid, err := d.ch.Push.SendPush(ctx, tokens, ports.PushMessage{Title: ev.Subject, Body: ev.Message, Data: ev.Data})
	if len(invalid) > 0 {
		if perr := d.users.RemoveDeviceTokens(ctx, userID, invalid); perr != nil {
			d.log.Warn().Err(perr).Str("user_id", userID).Msg("no se pudieron eliminar tokens inválidos")
		} else {
			report.mu.Lock()
			report.PrunedTokens = append(report.PrunedTokens, invalid...)
			report.mu.Unlock()
		}
	}
	return err
}

// DispatchMatching notifica a los usuarios con el puesto indicado que tengan la
// ubicación entre sus preferidas. Devuelve cuántos usuarios fueron notificados.
func (d *Dispatcher) DispatchMatching(ctx context.Context, jobRole, location string, ev Event) int {
	users, err := d.users.ListByJobRole(ctx, jobRole)
	if err != nil {
		d.log.Warn().Err(err).Str("job_role", jobRole).Msg("no se pudieron listar usuarios por puesto")
		return 0
	}
	sent := 0
	for _, u := range users {
		if !u.IsVerified || !u.PrefersLocation(location) {
			continue
		}
		if _, err := d.Dispatch(ctx, u.ID, ev); err != nil {
			d.log.Warn().Err(err).Str("user_id", u.ID).Msg("notificación por coincidencia fallida")
			continue
		}
		sent++
	}
	return sent
}
