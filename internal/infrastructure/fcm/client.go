// Package fcm notificaciones push con el cliente de mensajería de Firebase Admin.
package fcm

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/errorutils"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"github.com/whizkidefos/employee-management-api/internal/application/ports"
	"github.com/whizkidefos/employee-management-api/pkg/config"
)

var _ ports.PushSender = (*Client)(nil)

type Client struct {
	messaging *messaging.Client
}

// NewClient usa la cuenta de servicio de cfg.CredentialsFile; sin FCM_PROJECT_ID
// el proyecto se toma de las credenciales.
func NewClient(ctx context.Context, cfg config.FCMConfig) (*Client, error) {
	return newClient(ctx, cfg.ProjectID, option.WithCredentialsFile(cfg.CredentialsFile))
}

func newClient(ctx context.Context, projectID string, opts ...option.ClientOption) (*Client, error) {
	var fbCfg *firebase.Config
	if projectID != "" {
		fbCfg = &firebase.Config{ProjectID: projectID}
	}
	app, err := firebase.NewApp(ctx, fbCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("app de firebase: %w", err)
	}
	mc, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("cliente FCM: %w", err)
	}
	return &Client{messaging: mc}, nil
}

// SendPush envía token a token. Los tokens UNREGISTERED o inválidos se
// devuelven para que el llamador los retire.
func (c *Client) SendPush(ctx context.Context, tokens []string, msg ports.PushMessage) ([]string, error) {
	var (
		invalid []string
		lastErr error
		sent    int
	)
	for _, tok := range tokens {
		gone, err := c.send(ctx, tok, msg)
		switch {
		case gone:
			invalid = append(invalid, tok)
		case err != nil:
			lastErr = err
		default:
			sent++
		}
	}
	if sent == 0 && len(invalid) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return invalid, nil
}

func (c *Client) send(ctx context.Context, token string, msg ports.PushMessage) (bool, error) {
	sendCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, err := c.messaging.Send(sendCtx, &messaging.Message{
		Token:        token,
		Notification: &messaging.Notification{Title: msg.Title, Body: msg.Body},
		Data:         msg.Data,
	})
	if err == nil {
		return false, nil
	}
	if isTokenGone(err) {
		return true, nil
	}
	return false, fmt.Errorf("fcm: %w", err)
}

func isTokenGone(err error) bool {
	return messaging.IsUnregistered(err) || errorutils.IsInvalidArgument(err) || errorutils.IsNotFound(err)
}
