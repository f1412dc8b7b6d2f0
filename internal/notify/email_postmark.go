package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/mrz1836/postmark"

	"github.com/roblartech/contact-relay/pkg/logging"
)

type postmarkAPI interface {
	SendEmail(ctx context.Context, email postmark.Email) (postmark.EmailResponse, error)
}

// PostmarkConfig holds configuration for Postmark.
type PostmarkConfig struct {
	ServerToken  string
	AccountToken string
}

// PostmarkSender sends emails via the Postmark transactional API.
type PostmarkSender struct {
	client postmarkAPI
	logger *logging.Logger
}

// NewPostmarkSender creates a Postmark-backed sender. Only the server token
// is needed to send; the account token is optional.
func NewPostmarkSender(cfg PostmarkConfig, logger *logging.Logger) (*PostmarkSender, error) {
	if strings.TrimSpace(cfg.ServerToken) == "" {
		return nil, fmt.Errorf("%w: POSTMARK_SERVER_TOKEN is required", ErrMissingAPIKey)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &PostmarkSender{
		client: postmark.NewClient(cfg.ServerToken, cfg.AccountToken),
		logger: logger,
	}, nil
}

// Provider implements Sender.
func (s *PostmarkSender) Provider() string { return ProviderPostmark }

// Send implements Sender using Postmark's single email endpoint.
func (s *PostmarkSender) Send(ctx context.Context, msg Message) (Receipt, error) {
	email, err := msg.Resolve()
	if err != nil {
		return Receipt{}, err
	}

	resp, err := s.client.SendEmail(ctx, buildPostmarkEmail(email))
	if err != nil {
		s.logger.Error("postmark send failed", "error", err)
		return Receipt{}, fmt.Errorf("notify: postmark send failed: %w", err)
	}
	// Postmark answers API-level rejections with 422 and a non-zero ErrorCode.
	if resp.ErrorCode > 0 {
		body := fmt.Sprintf("%d: %s", resp.ErrorCode, resp.Message)
		s.logger.Error("postmark rejected email", "error_code", resp.ErrorCode, "body", resp.Message)
		return Receipt{}, &UpstreamError{Provider: ProviderPostmark, StatusCode: http.StatusUnprocessableEntity, Body: body}
	}

	id := resp.MessageID
	if id == "" {
		id = DefaultMessageID
	}
	s.logger.Info("email sent via postmark", "subject", email.Subject, "message_id", id)
	return Receipt{MessageID: id}, nil
}

func buildPostmarkEmail(email *Email) postmark.Email {
	to := make([]string, 0, len(email.To))
	for _, addr := range email.To {
		to = append(to, formatAddress(addr))
	}
	out := postmark.Email{
		From:     formatAddress(email.Sender),
		To:       strings.Join(to, ","),
		Subject:  email.Subject,
		HTMLBody: email.HTMLContent,
		TextBody: email.TextContent,
	}
	if email.ReplyTo != nil && email.ReplyTo.Email != "" {
		out.ReplyTo = formatAddress(*email.ReplyTo)
	}
	// Postmark supports a single tag per message.
	if len(email.Tags) > 0 {
		out.Tag = email.Tags[0]
	}
	return out
}

var _ Sender = (*PostmarkSender)(nil)
