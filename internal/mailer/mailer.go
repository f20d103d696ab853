// Package mailer implements the outbound adapter for the campus mail
// gateway. The gateway accepts JSON send requests over HTTP; this package
// only knows how to format and deliver the OTP mail the login flow needs.
package mailer

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gsdportal/reserva-api/internal/config"
	"github.com/gsdportal/reserva-api/internal/logger"
	"github.com/gsdportal/reserva-api/internal/utils"
)

// sendPath is the gateway endpoint for single-message sends.
const sendPath = "/v1/messages"

// sendRequest is the gateway's wire format for one outbound mail.
type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Mailer delivers mail through the campus gateway using a shared resty
// client. Safe for concurrent use.
type Mailer struct {
	client *utils.HTTPClient
	sender string
	logger *logger.Logger
}

// New constructs a Mailer from the gateway configuration. The API key is
// attached to every request; the per-call timeout comes from cfg.
func New(cfg config.Mailer, log *logger.Logger) *Mailer {
	client := utils.NewHTTPClient()
	client.
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.APIKey).
		SetTimeout(cfg.RequestTimeout).
		SetHeader("Content-Type", "application/json")

	return &Mailer{
		client: client,
		sender: cfg.Sender,
		logger: log,
	}
}

// SendOTP mails a one-time login code. The body names the expiry so the
// recipient knows how long the code stays valid; the code itself is never
// logged.
func (m *Mailer) SendOTP(ctx context.Context, email, code string, expiresAt time.Time) error {
	log := logger.FromContext(ctx)

	request := sendRequest{
		From:    m.sender,
		To:      email,
		Subject: "Your one-time login code",
		Body: fmt.Sprintf(
			"Your one-time login code is %s. It expires at %s. If you did not request this code, contact the General Services Department.",
			code, expiresAt.Format("15:04"),
		),
	}

	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(request).
		Post(sendPath)
	if err != nil {
		log.Err(err).Str("to", email).Msg("mail gateway call failed")
		return fmt.Errorf("mail gateway call failed: %w", err)
	}

	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusAccepted {
		log.Error().Int("status", resp.StatusCode()).Str("to", email).Msg("mail gateway rejected message")
		return fmt.Errorf("mail gateway rejected message: status %d", resp.StatusCode())
	}

	return nil
}
