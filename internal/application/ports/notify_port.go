package ports

import "context"

// RealtimeSender canal en tiempo real (WebSocket). Solo entrega a conexiones abiertas.
type RealtimeSender interface {
	IsConnected(userID string) bool
	// SendToUser serializa frame y lo encola en todas las conexiones del usuario.
	SendToUser(userID string, frame any) error
}

// EmailSender canal de correo.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// SMSSender canal SMS.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// PushMessage notificación móvil.
type PushMessage struct {
	Title string
	Body  string
	Data  map[string]string
}

// PushSender envía a cada token y devuelve los que el proveedor considera inválidos.
// err solo se devuelve cuando no se pudo intentar ningún envío.
type PushSender interface {
	SendPush(ctx context.Context, tokens []string, msg PushMessage) (invalid []string, err error)
}

// PhoneVerifier verificación de teléfono por código SMS.
type PhoneVerifier interface {
	StartVerification(ctx context.Context, phone string) error
	CheckVerification(ctx context.Context, phone, code string) (bool, error)
}
