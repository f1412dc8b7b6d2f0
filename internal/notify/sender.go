package notify

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	"github.com/roblartech/contact-relay/pkg/logging"
)

// Supported EMAIL_PROVIDER values.
const (
	ProviderBrevo    = "brevo"
	ProviderSendGrid = "sendgrid"
	ProviderSES      = "ses"
	ProviderPostmark = "postmark"
	ProviderResend   = "resend"
	ProviderStub     = "stub"
)

// SenderConfig carries everything NewSender needs to build any provider.
type SenderConfig struct {
	Provider string
	Timeout  time.Duration

	BrevoAPIKey  string
	BrevoBaseURL string

	SendGridAPIKey       string
	PostmarkServerToken  string
	PostmarkAccountToken string
	ResendAPIKey         string

	// SESClient is built by the caller because it needs an AWS config.
	SESClient *sesv2.Client
}

// NewSender builds the Sender selected by cfg.Provider. A missing credential
// yields an error wrapping ErrMissingAPIKey.
func NewSender(cfg SenderConfig, logger *logging.Logger) (Sender, error) {
	if logger == nil {
		logger = logging.Default()
	}
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = ProviderBrevo
	}
	logger = logger.With("provider", provider)

	var (
		sender Sender
		err    error
	)
	switch provider {
	case ProviderBrevo:
		sender, err = asSender(NewBrevoSender(BrevoConfig{
			APIKey:  cfg.BrevoAPIKey,
			BaseURL: cfg.BrevoBaseURL,
			Timeout: cfg.Timeout,
		}, logger))
	case ProviderSendGrid:
		sender, err = asSender(NewSendGridSender(SendGridConfig{APIKey: cfg.SendGridAPIKey}, logger))
	case ProviderSES:
		if cfg.SESClient == nil {
			return nil, fmt.Errorf("%w: SES client could not be created", ErrMissingAPIKey)
		}
		sender = NewSESSender(cfg.SESClient, logger)
	case ProviderPostmark:
		sender, err = asSender(NewPostmarkSender(PostmarkConfig{
			ServerToken:  cfg.PostmarkServerToken,
			AccountToken: cfg.PostmarkAccountToken,
		}, logger))
	case ProviderResend:
		sender, err = asSender(NewResendSender(cfg.ResendAPIKey, logger))
	case ProviderStub:
		sender = NewStubSender(logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return sender, nil
}

// asSender keeps a failed constructor's typed nil out of the Sender interface.
func asSender[T Sender](s T, err error) (Sender, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}

func formatAddress(addr Address) string {
	if strings.TrimSpace(addr.Name) == "" {
		return addr.Email
	}
	return (&mail.Address{Name: addr.Name, Address: addr.Email}).String()
}
