// Package email canal de correo: SMTP con gomail o registro en log cuando no
// hay servidor configurado.
package email

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/whizkidefos/employee-management-api/internal/application/ports"
	"github.com/whizkidefos/employee-management-api/pkg/config"
)

var (
	_ ports.EmailSender = (*SMTPSender)(nil)
	_ ports.EmailSender = (*LogSender)(nil)
)

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender envía HTML por SMTP.
type SMTPSender struct {
	from   string
	dialer dialer
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

func (s *SMTPSender) SendEmail(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp a %s: %w", to, err)
	}
	return nil
}

// LogSender desarrollo: registra el correo en lugar de enviarlo.
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log.With().Str("component", "email").Logger()}
}

func (s *LogSender) SendEmail(_ context.Context, to, subject, body string) error {
	s.log.Info().Str("to", to).Str("subject", subject).Int("bytes", len(body)).Msg("correo (sin SMTP configurado)")
	return nil
}
