package testutil

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/whizkidefos/employee-management-api/internal/application/notification"
	"github.com/whizkidefos/employee-management-api/internal/application/ports"
	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
)

// ErrFake error genérico para simular fallos de adaptadores.
var ErrFake = errors.New("fallo simulado")

// Clock reloj fijo que se puede avanzar.
type Clock struct {
	mu sync.Mutex
	t  time.Time
}

func NewClock(t time.Time) *Clock { return &Clock{t: t} }

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// ─── Notificaciones ──────────────────────────────────────────────────────────

// Sent notificación registrada por RecordingNotifier.
type Sent struct {
	UserID   string
	Event    notification.Event
	JobRole  string
	Location string
}

// RecordingNotifier registra los eventos en lugar de enviarlos. Si Fail está
// definido, Dispatch devuelve ese error (p. ej. usuario inexistente).
type RecordingNotifier struct {
	mu       sync.Mutex
	Sent     []Sent
	Matching []Sent
	Fail     error
}

var _ notification.Notifier = (*RecordingNotifier)(nil)

func (n *RecordingNotifier) Dispatch(_ context.Context, userID string, ev notification.Event) (*notification.Report, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Fail != nil {
		return nil, n.Fail
	}
	n.Sent = append(n.Sent, Sent{UserID: userID, Event: ev})
	return &notification.Report{}, nil
}

func (n *RecordingNotifier) DispatchMatching(_ context.Context, jobRole, location string, ev notification.Event) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Matching = append(n.Matching, Sent{Event: ev, JobRole: jobRole, Location: location})
	return 1
}

// Types devuelve los tipos de evento enviados a userID, en orden.
func (n *RecordingNotifier) Types(userID string) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, s := range n.Sent {
		if s.UserID == userID {
			out = append(out, s.Event.Type)
		}
	}
	return out
}

// Channel canal falso que implementa todos los puertos de notificación.
type Channel struct {
	mu        sync.Mutex
	Connected map[string]bool
	Calls     []string
	Err       error
	Invalid   []string // tokens que SendPush reporta como inválidos
}

var (
	_ ports.RealtimeSender = (*Channel)(nil)
	_ ports.EmailSender    = (*Channel)(nil)
	_ ports.SMSSender      = (*Channel)(nil)
	_ ports.PushSender     = (*Channel)(nil)
)

func (c *Channel) record(call string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls = append(c.Calls, call)
	return c.Err
}

func (c *Channel) IsConnected(userID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Connected[userID]
}

func (c *Channel) SendToUser(userID string, _ any) error { return c.record("realtime:" + userID) }

func (c *Channel) SendEmail(_ context.Context, to, _, _ string) error { return c.record("email:" + to) }

func (c *Channel) SendSMS(_ context.Context, to, _ string) error { return c.record("sms:" + to) }

func (c *Channel) SendPush(_ context.Context, tokens []string, _ ports.PushMessage) ([]string, error) {
	for _, t := range tokens {
		_ = c.record("push:" + t)
	}
	return c.Invalid, c.Err
}

// CallCount número de llamadas registradas.
func (c *Channel) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Calls)
}

// ─── Almacenamiento ──────────────────────────────────────────────────────────

// FileStore almacén de archivos en memoria.
type FileStore struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Puts    int
}

var _ ports.FileStore = (*FileStore)(nil)

func NewFileStore() *FileStore { return &FileStore{Objects: map[string][]byte{}} }

func (s *FileStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (*ports.StoredObject, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Objects[key] = buf.Bytes()
	s.Puts++
	return &ports.StoredObject{Key: key, URL: "mem://" + key}, nil
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Objects, key)
	return nil
}

func (s *FileStore) URL(_ context.Context, key string) (string, error) {
	return "mem://" + key + "?signed=1", nil
}

// Has indica si existe un objeto con esa clave.
func (s *FileStore) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.Objects[key]
	return ok
}

// ─── Pagos ───────────────────────────────────────────────────────────────────

// Gateway pasarela de pagos falsa. Event es lo que devuelve ParseEvent.
type Gateway struct {
	mu       sync.Mutex
	Intents  []ports.PaymentIntentInput
	Refunds  []string
	Event    *ports.PaymentEvent
	ParseErr error
}

var _ ports.PaymentGateway = (*Gateway)(nil)

func (g *Gateway) CreatePaymentIntent(_ context.Context, in ports.PaymentIntentInput) (*ports.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Intents = append(g.Intents, in)
	id := "pi_test_" + string(rune('a'+len(g.Intents)-1))
	return &ports.PaymentIntent{ID: id, ClientSecret: id + "_secret", Status: "requires_payment_method"}, nil
}

func (g *Gateway) Refund(_ context.Context, intentID string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Refunds = append(g.Refunds, intentID)
	return "re_" + intentID, nil
}

func (g *Gateway) ParseEvent(_ []byte, _ string) (*ports.PaymentEvent, error) {
	if g.ParseErr != nil {
		return nil, g.ParseErr
	}
	return g.Event, nil
}

// Idempotency almacén de claves en memoria.
type Idempotency struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

var _ ports.IdempotencyStore = (*Idempotency)(nil)

func (i *Idempotency) Claim(_ context.Context, key string, _ time.Duration) (bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.keys == nil {
		i.keys = map[string]struct{}{}
	}
	if _, ok := i.keys[key]; ok {
		return false, nil
	}
	i.keys[key] = struct{}{}
	return true, nil
}

func (i *Idempotency) Release(_ context.Context, key string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.keys, key)
	return nil
}

// ─── Otros adaptadores ───────────────────────────────────────────────────────

// PDF generador falso; cuenta las llamadas por tipo de documento.
type PDF struct {
	mu           sync.Mutex
	Certificates []ports.CertificateData
	Reports      int
	Profiles     int
}

var _ ports.PDFRenderer = (*PDF)(nil)

func (p *PDF) Certificate(data ports.CertificateData) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Certificates = append(p.Certificates, data)
	return []byte("%PDF-cert " + data.CertificateID), nil
}

func (p *PDF) ShiftReport(ports.ShiftReportData) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Reports++
	return []byte("%PDF-report"), nil
}

func (p *PDF) ProfileExport(*entity.User, time.Time) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Profiles++
	return []byte("%PDF-profile"), nil
}

// Geocoder devuelve siempre Result.
type Geocoder struct {
	Result *entity.Coordinates
	Err    error
	Calls  int
}

var _ ports.Geocoder = (*Geocoder)(nil)

func (g *Geocoder) Geocode(context.Context, string) (*entity.Coordinates, error) {
	g.Calls++
	return g.Result, g.Err
}

// Verifier verificador de teléfono: acepta Code como código correcto.
type Verifier struct {
	mu      sync.Mutex
	Code    string
	Started []string
	Err     error
}

var _ ports.PhoneVerifier = (*Verifier)(nil)

func (v *Verifier) StartVerification(_ context.Context, phone string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Started = append(v.Started, phone)
	return v.Err
}

func (v *Verifier) CheckVerification(_ context.Context, _, code string) (bool, error) {
	return code == v.Code, nil
}
