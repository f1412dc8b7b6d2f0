package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/roblartech/contact-relay/pkg/logging"
)

const (
	defaultBrevoBaseURL   = "https://api.brevo.com/v3"
	defaultBrevoUserAgent = "roblar-contact-relay/1.0"
	defaultBrevoTimeout   = 8 * time.Second
	maxBrevoResponseBytes = 1 << 20
)

var brevoTracer = otel.Tracer("roblar.internal.notify.brevo")

// BrevoConfig controls how the Brevo sender behaves.
type BrevoConfig struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	UserAgent  string
}

// BrevoSender relays emails through the Brevo transactional email API.
// It performs exactly one attempt per Send.
type BrevoSender struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	userAgent  string
	logger     *logging.Logger
}

// NewBrevoSender creates a configured BrevoSender with sane defaults.
func NewBrevoSender(cfg BrevoConfig, logger *logging.Logger) (*BrevoSender, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: BREVO_API_KEY is required", ErrMissingAPIKey)
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBrevoBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultBrevoTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultBrevoUserAgent
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &BrevoSender{
		apiKey:     apiKey,
		endpoint:   baseURL + "/smtp/email",
		httpClient: httpClient,
		userAgent:  userAgent,
		logger:     logger,
	}, nil
}

// Provider implements Sender.
func (s *BrevoSender) Provider() string { return ProviderBrevo }

// Send posts the message to Brevo. Raw messages are forwarded byte-for-byte.
func (s *BrevoSender) Send(ctx context.Context, msg Message) (Receipt, error) {
	ctx, span := brevoTracer.Start(ctx, "notify.brevo.send", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	body := []byte(msg.Raw)
	if len(body) == 0 {
		if msg.Email == nil {
			return Receipt{}, ErrEmptyMessage
		}
		encoded, err := json.Marshal(msg.Email)
		if err != nil {
			return Receipt{}, fmt.Errorf("notify: marshal brevo payload: %w", err)
		}
		body = encoded
	}
	span.SetAttributes(attribute.Bool("notify.raw_payload", len(msg.Raw) > 0))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return Receipt{}, fmt.Errorf("notify: build brevo request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Api-Key", s.apiKey)
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport error")
		s.logger.Error("brevo send failed", "error", err)
		if ctx.Err() != nil {
			return Receipt{}, fmt.Errorf("notify: brevo request aborted: %w", ctx.Err())
		}
		return Receipt{}, fmt.Errorf("notify: brevo request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBrevoResponseBytes))
	if err != nil {
		return Receipt{}, fmt.Errorf("notify: read brevo response: %w", err)
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		upstreamErr := &UpstreamError{Provider: ProviderBrevo, StatusCode: resp.StatusCode, Body: string(data)}
		span.RecordError(upstreamErr)
		span.SetStatus(codes.Error, "upstream rejected")
		s.logger.Error("brevo returned error status", "status", resp.StatusCode, "body", string(data))
		return Receipt{}, upstreamErr
	}

	receipt := Receipt{MessageID: parseBrevoMessageID(data)}
	s.logger.Info("email sent via brevo", "status", resp.StatusCode, "message_id", receipt.MessageID)
	return receipt, nil
}

// parseBrevoMessageID never fails: the email is already accepted at this point.
func parseBrevoMessageID(data []byte) string {
	var parsed struct {
		MessageID string `json:"messageId"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil || strings.TrimSpace(parsed.MessageID) == "" {
		return DefaultMessageID
	}
	return parsed.MessageID
}

var _ Sender = (*BrevoSender)(nil)
