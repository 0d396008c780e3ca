package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/yasinhessnawi1/password-reset-backend/internal/config"
	"github.com/yasinhessnawi1/password-reset-backend/internal/constants"
	"github.com/yasinhessnawi1/password-reset-backend/internal/utils"
)

// ErrMissingEmailField is returned when a message lacks a recipient, subject or body.
var ErrMissingEmailField = errors.New("missing email field")

// Mailer delivers plain-text email.
type Mailer interface {
	Send(ctx context.Context, to, subject, text string) error
}

// NewMailer builds the mailer selected by the email provider setting.
func NewMailer(cfg *config.EmailSettings) (Mailer, error) {
	switch cfg.Provider {
	case constants.EmailProviderSendGrid:
		return NewSendGridMailer(cfg), nil
	case constants.EmailProviderLog:
		return NewLogMailer(), nil
	default:
		return nil, fmt.Errorf("%w: unknown email provider %q", config.ErrConfiguration, cfg.Provider)
	}
}

func validateMessage(to, subject, text string) error {
	switch {
	case to == "":
		return fmt.Errorf("%w: to", ErrMissingEmailField)
	case subject == "":
		return fmt.Errorf("%w: subject", ErrMissingEmailField)
	case text == "":
		return fmt.Errorf("%w: text", ErrMissingEmailField)
	}
	return nil
}

// sendGridClient is the subset of *sendgrid.Client used by SendGridMailer.
type sendGridClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridMailer sends email through the SendGrid v3 API.
type SendGridMailer struct {
	client  sendGridClient
	from    *mail.Email
	timeout time.Duration
}

// NewSendGridMailer creates a SendGridMailer from the email settings.
func NewSendGridMailer(cfg *config.EmailSettings) *SendGridMailer {
	return newSendGridMailer(sendgrid.NewSendClient(cfg.APIKey), cfg)
}

func newSendGridMailer(client sendGridClient, cfg *config.EmailSettings) *SendGridMailer {
	timeout := cfg.SendTimeout
	if timeout <= 0 {
		timeout = constants.DefaultEmailSendTimeout
	}
	return &SendGridMailer{
		client:  client,
		from:    mail.NewEmail(cfg.FromName, cfg.FromAddress),
		timeout: timeout,
	}
}

// Send delivers one message. The call is bounded by the configured send timeout.
func (m *SendGridMailer) Send(ctx context.Context, to, subject, text string) error {
	if err := validateMessage(to, subject, text); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	message := mail.NewSingleEmail(m.from, subject, mail.NewEmail("", to), text, "")

	startTime := time.Now()
	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		log.Error().
			Err(err).
			Str("to", utils.MaskEmail(to)).
			Dur(constants.LogFieldDuration, time.Since(startTime)).
			Msg("Failed to send email")
		return fmt.Errorf("sendgrid request failed: %w", err)
	}

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		log.Error().
			Int("status_code", response.StatusCode).
			Str("to", utils.MaskEmail(to)).
			Msg("SendGrid rejected email")
		return fmt.Errorf("sendgrid returned status %d", response.StatusCode)
	}

	log.Info().
		Int("status_code", response.StatusCode).
		Str("to", utils.MaskEmail(to)).
		Dur(constants.LogFieldDuration, time.Since(startTime)).
		Msg("Email sent")
	return nil
}

// LogMailer writes messages to the log instead of delivering them.
// It is meant for local development.
type LogMailer struct{}

// NewLogMailer creates a LogMailer.
func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

// Send logs the message. The body is only emitted at debug level.
func (m *LogMailer) Send(ctx context.Context, to, subject, text string) error {
	if err := validateMessage(to, subject, text); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	log.Info().
		Str("to", utils.MaskEmail(to)).
		Str("subject", subject).
		Msg("Email logged (log provider)")
	log.Debug().
		Str("to", to).
		Str("body", text).
		Msg("Email body")
	return nil
}

var (
	_ Mailer = (*SendGridMailer)(nil)
	_ Mailer = (*LogMailer)(nil)
)
