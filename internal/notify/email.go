package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/roblartech/contact-relay/pkg/logging"
)

// DefaultMessageID is reported when a provider accepted the email but its
// response did not carry a usable message identifier.
const DefaultMessageID = "ok"

var (
	// ErrMissingAPIKey is returned when the selected provider has no credential.
	ErrMissingAPIKey = errors.New("notify: email provider credential is missing")

	// ErrUnknownProvider is returned for an unsupported EMAIL_PROVIDER value.
	ErrUnknownProvider = errors.New("notify: unknown email provider")

	// ErrEmptyMessage is returned when a Message carries neither an Email nor raw bytes.
	ErrEmptyMessage = errors.New("notify: message has no content")
)

// Sender defines the interface for relaying transactional emails.
// Implementations can be swapped (Brevo, SendGrid, SES, Postmark, Resend)
// without changing callers.
type Sender interface {
	Send(ctx context.Context, msg Message) (Receipt, error)
	Provider() string
}

// Address is a mailbox with an optional display name.
type Address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Email is the provider-agnostic outbound payload. Its JSON form matches the
// Brevo /v3/smtp/email request body.
type Email struct {
	Sender      Address   `json:"sender"`
	To          []Address `json:"to"`
	Subject     string    `json:"subject"`
	HTMLContent string    `json:"htmlContent"`
	TextContent string    `json:"textContent,omitempty"`
	ReplyTo     *Address  `json:"replyTo,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
}

// Message is what a Sender relays: either a built Email or a raw JSON
// document supplied by the caller. Raw wins when both are set.
type Message struct {
	Email *Email
	Raw   json.RawMessage
}

// Resolve returns the structured form of the message, decoding Raw when needed.
func (m Message) Resolve() (*Email, error) {
	if len(m.Raw) > 0 {
		return DecodeEmail(m.Raw)
	}
	if m.Email != nil {
		return m.Email, nil
	}
	return nil, ErrEmptyMessage
}

// Receipt describes an email accepted by the provider.
type Receipt struct {
	MessageID string
}

// UpstreamError reports a non-success response from the email provider.
// Body is kept for server-side diagnostics and must not be echoed to callers.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("notify: %s returned status %d", e.Provider, e.StatusCode)
}

// DecodeEmail parses a Brevo-shaped document, also accepting the
// recipients/htmlBody/textBody spellings.
func DecodeEmail(raw []byte) (*Email, error) {
	var wire struct {
		Email
		Recipients []Address `json:"recipients"`
		HTMLBody   string    `json:"htmlBody"`
		TextBody   string    `json:"textBody"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("notify: decode email: %w", err)
	}
	email := wire.Email
	if len(email.To) == 0 {
		email.To = wire.Recipients
	}
	if email.HTMLContent == "" {
		email.HTMLContent = wire.HTMLBody
	}
	if email.TextContent == "" {
		email.TextContent = wire.TextBody
	}
	return &email, nil
}

// StubSender is a no-op sender for development or when email is disabled.
type StubSender struct {
	logger *logging.Logger
}

// NewStubSender creates a stub sender that logs but doesn't send.
func NewStubSender(logger *logging.Logger) *StubSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubSender{logger: logger}
}

// Send logs the email but doesn't actually send it.
func (s *StubSender) Send(ctx context.Context, msg Message) (Receipt, error) {
	email, err := msg.Resolve()
	if err != nil {
		return Receipt{}, err
	}
	id := "stub-" + uuid.NewString()
	s.logger.Info("stub email sender: would send email",
		"subject", email.Subject,
		"recipients", len(email.To),
		"message_id", id,
	)
	return Receipt{MessageID: id}, nil
}

// Provider implements Sender.
func (s *StubSender) Provider() string { return ProviderStub }

var _ Sender = (*StubSender)(nil)
