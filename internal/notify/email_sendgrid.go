package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/roblartech/contact-relay/pkg/logging"
)

type sendGridAPI interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridSender sends emails via SendGrid API.
type SendGridSender struct {
	client sendGridAPI
	logger *logging.Logger
}

// SendGridConfig holds configuration for SendGrid.
type SendGridConfig struct {
	APIKey string
}

// NewSendGridSender creates a new SendGrid email sender.
func NewSendGridSender(cfg SendGridConfig, logger *logging.Logger) (*SendGridSender, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: SENDGRID_API_KEY is required", ErrMissingAPIKey)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SendGridSender{
		client: sendgrid.NewSendClient(cfg.APIKey),
		logger: logger,
	}, nil
}

// Provider implements Sender.
func (s *SendGridSender) Provider() string { return ProviderSendGrid }

// Send sends an email via SendGrid.
func (s *SendGridSender) Send(ctx context.Context, msg Message) (Receipt, error) {
	if s.client == nil {
		return Receipt{}, fmt.Errorf("notify: sendgrid client not configured")
	}
	email, err := msg.Resolve()
	if err != nil {
		return Receipt{}, err
	}

	response, err := s.client.SendWithContext(ctx, buildSendGridMail(email))
	if err != nil {
		s.logger.Error("sendgrid send failed", "error", err)
		return Receipt{}, fmt.Errorf("notify: sendgrid send failed: %w", err)
	}

	if response.StatusCode >= 400 {
		s.logger.Error("sendgrid returned error status", "status", response.StatusCode, "body", response.Body)
		return Receipt{}, &UpstreamError{Provider: ProviderSendGrid, StatusCode: response.StatusCode, Body: response.Body}
	}

	id := DefaultMessageID
	if ids := response.Headers["X-Message-Id"]; len(ids) > 0 && ids[0] != "" {
		id = ids[0]
	}
	s.logger.Info("email sent via sendgrid", "subject", email.Subject, "status", response.StatusCode, "message_id", id)
	return Receipt{MessageID: id}, nil
}

func buildSendGridMail(email *Email) *mail.SGMailV3 {
	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(email.Sender.Name, email.Sender.Email))
	message.Subject = email.Subject

	p := mail.NewPersonalization()
	for _, to := range email.To {
		p.AddTos(mail.NewEmail(to.Name, to.Email))
	}
	message.AddPersonalizations(p)

	// SendGrid requires text/plain to precede text/html.
	if email.TextContent != "" {
		message.AddContent(mail.NewContent("text/plain", email.TextContent))
	}
	message.AddContent(mail.NewContent("text/html", email.HTMLContent))

	if email.ReplyTo != nil && email.ReplyTo.Email != "" {
		message.SetReplyTo(mail.NewEmail(email.ReplyTo.Name, email.ReplyTo.Email))
	}
	if len(email.Tags) > 0 {
		message.AddCategories(email.Tags...)
	}
	return message
}

var _ Sender = (*SendGridSender)(nil)
