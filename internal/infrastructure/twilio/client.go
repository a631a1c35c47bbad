// Package twilio SMS y verificación de teléfono con twilio-go.
package twilio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	twiliosdk "github.com/twilio/twilio-go"
	twclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	verify "github.com/twilio/twilio-go/rest/verify/v2"

	"github.com/whizkidefos/employee-management-api/internal/application/ports"
	"github.com/whizkidefos/employee-management-api/pkg/config"
)

var (
	_ ports.SMSSender     = (*Client)(nil)
	_ ports.PhoneVerifier = (*Client)(nil)
)

// ErrVerifyNotConfigured falta TWILIO_VERIFY_SERVICE_SID.
var ErrVerifyNotConfigured = errors.New("twilio verify no configurado")

type Client struct {
	cfg  config.TwilioConfig
	rest *twiliosdk.RestClient
}

func NewClient(cfg config.TwilioConfig) *Client {
	return newClient(cfg, &http.Client{Timeout: 10 * time.Second})
}

func newClient(cfg config.TwilioConfig, hc *http.Client) *Client {
	base := &twclient.Client{
		Credentials: twclient.NewCredentials(cfg.AccountSID, cfg.AuthToken),
		HTTPClient:  hc,
	}
	base.SetAccountSid(cfg.AccountSID)
	return &Client{
		cfg:  cfg,
		rest: twiliosdk.NewRestClientWithParams(twiliosdk.ClientParams{Client: base}),
	}
}

// SendSMS el SDK no acepta contexto; se respeta una cancelación previa.
func (c *Client) SendSMS(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(c.cfg.FromNumber)
	params.SetBody(body)
	if _, err := c.rest.Api.CreateMessage(params); err != nil {
		return wrap(err)
	}
	return nil
}

func (c *Client) StartVerification(ctx context.Context, phone string) error {
	if c.cfg.VerifyServiceSID == "" {
		return ErrVerifyNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	params := &verify.CreateVerificationParams{}
	params.SetTo(phone)
	params.SetChannel("sms")
	if _, err := c.rest.VerifyV2.CreateVerification(c.cfg.VerifyServiceSID, params); err != nil {
		return wrap(err)
	}
	return nil
}

// CheckVerification true solo si Twilio responde status "approved".
func (c *Client) CheckVerification(ctx context.Context, phone, code string) (bool, error) {
	if c.cfg.VerifyServiceSID == "" {
		return false, ErrVerifyNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	params := &verify.CreateVerificationCheckParams{}
	params.SetTo(phone)
	params.SetCode(code)
	out, err := c.rest.VerifyV2.CreateVerificationCheck(c.cfg.VerifyServiceSID, params)
	if err != nil {
		return false, wrap(err)
	}
	return out.Status != nil && *out.Status == "approved", nil
}

func wrap(err error) error {
	var re *twclient.TwilioRestError
	if errors.As(err, &re) {
		return fmt.Errorf("twilio: status %d: %s", re.Status, re.Message)
	}
	return fmt.Errorf("twilio: %w", err)
}
