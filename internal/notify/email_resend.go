package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/roblartech/contact-relay/pkg/logging"
)

type resendAPI interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendSender sends emails via the Resend API.
type ResendSender struct {
	emails resendAPI
	logger *logging.Logger
}

// NewResendSender creates a Resend-backed sender.
func NewResendSender(apiKey string, logger *logging.Logger) (*ResendSender, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: RESEND_API_KEY is required", ErrMissingAPIKey)
	}
	if logger == nil {
		logger = logging.Default()
	}
	client := resend.NewClient(apiKey)
	return &ResendSender{emails: client.Emails, logger: logger}, nil
}

// Provider implements Sender.
func (s *ResendSender) Provider() string { return ProviderResend }

// Send implements Sender.
func (s *ResendSender) Send(ctx context.Context, msg Message) (Receipt, error) {
	email, err := msg.Resolve()
	if err != nil {
		return Receipt{}, err
	}

	sent, err := s.emails.SendWithContext(ctx, buildResendRequest(email))
	if err != nil {
		s.logger.Error("resend send failed", "error", err)
		return Receipt{}, fmt.Errorf("notify: resend send failed: %w", err)
	}

	id := DefaultMessageID
	if sent != nil && sent.Id != "" {
		id = sent.Id
	}
	s.logger.Info("email sent via resend", "subject", email.Subject, "message_id", id)
	return Receipt{MessageID: id}, nil
}

func buildResendRequest(email *Email) *resend.SendEmailRequest {
	to := make([]string, 0, len(email.To))
	for _, addr := range email.To {
		to = append(to, formatAddress(addr))
	}
	req := &resend.SendEmailRequest{
		From:    formatAddress(email.Sender),
		To:      to,
		Subject: email.Subject,
		Html:    email.HTMLContent,
		Text:    email.TextContent,
	}
	if email.ReplyTo != nil && email.ReplyTo.Email != "" {
		req.ReplyTo = email.ReplyTo.Email
	}
	for _, tag := range email.Tags {
		req.Tags = append(req.Tags, resend.Tag{Name: "category", Value: tag})
	}
	return req
}

var _ Sender = (*ResendSender)(nil)
