package contact

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/roblartech/contact-relay/internal/notify"
	"github.com/roblartech/contact-relay/internal/observability/metrics"
	"github.com/roblartech/contact-relay/pkg/logging"
)

// Path is where the contact endpoint is mounted.
const Path = "/api/contact"

var contactTracer = otel.Tracer("roblar.internal.contact")

// Config wires a Handler.
type Config struct {
	// Sender is nil when the provider could not be built at startup;
	// SenderErr then holds the reason.
	Sender    notify.Sender
	SenderErr error

	Identity      Identity
	ThankYouPath  string
	HoneypotField string
	MaxBodyBytes  int64

	Metrics *metrics.ContactMetrics
	Logger  *logging.Logger
}

// Handler serves the contact endpoint.
type Handler struct {
	sender       notify.Sender
	senderErr    error
	normalizer   Normalizer
	identity     Identity
	thankYouPath string
	metrics      *metrics.ContactMetrics
	logger       *logging.Logger
}

// NewHandler creates a new contact handler
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	senderErr := cfg.SenderErr
	if cfg.Sender == nil && senderErr == nil {
		senderErr = ErrNotConfigured
	}
	return &Handler{
		sender:    cfg.Sender,
		senderErr: senderErr,
		normalizer: Normalizer{
			HoneypotField: cfg.HoneypotField,
			MaxBodyBytes:  cfg.MaxBodyBytes,
		},
		identity:     cfg.Identity,
		thankYouPath: cfg.ThankYouPath,
		metrics:      cfg.Metrics,
		logger:       logger,
	}
}

// Health handles GET /api/contact
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "endpoint": Path})
}

// Submit handles POST /api/contact
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, span := contactTracer.Start(r.Context(), "contact.submit")
	defer span.End()

	mode := DetectMode(r)
	outcome := h.Process(r.WithContext(ctx))

	span.SetAttributes(
		attribute.String("roblar.contact.mode", string(mode)),
		attribute.String("roblar.contact.outcome", string(outcome.Kind)),
	)
	if outcome.Err != nil {
		span.RecordError(outcome.Err)
	}
	if !outcome.OK() {
		span.SetStatus(codes.Error, string(outcome.Kind))
	}

	h.metrics.ObserveSubmission(string(outcome.Kind), string(mode))
	h.logOutcome(outcome, mode)
	WriteOutcome(w, r, outcome, mode, h.thankYouPath)
}

// Process runs one request through normalize, filter, build and relay.
// A panic anywhere in the pipeline becomes an unexpected outcome.
func (h *Handler) Process(r *http.Request) (outcome Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			outcome = Outcome{Kind: KindUnexpected, Err: fmt.Errorf("contact: panic: %v", rec)}
		}
	}()

	sub, err := h.normalizer.Normalize(r)
	if err != nil {
		return Outcome{Kind: KindMalformed, Err: err}
	}
	if TripsHoneypot(sub) {
		return Outcome{Kind: KindHoneypot, MessageID: notify.DefaultMessageID}
	}

	if h.sender == nil {
		return Outcome{Kind: KindConfiguration, Err: h.senderErr}
	}

	var msg notify.Message
	if sub.IsDirect() {
		msg.Raw = sub.Direct
	} else {
		email, err := BuildPayload(sub.Lead, h.identity)
		if err != nil {
			if errors.Is(err, ErrValidationFailed) {
				return Outcome{Kind: KindValidation, Err: err}
			}
			return Outcome{Kind: KindUnexpected, Err: err}
		}
		msg.Email = email
	}
	return h.relay(r.Context(), msg)
}

func (h *Handler) relay(ctx context.Context, msg notify.Message) Outcome {
	ctx, span := contactTracer.Start(ctx, "contact.relay")
	defer span.End()

	provider := h.sender.Provider()
	direct := len(msg.Raw) > 0
	span.SetAttributes(
		attribute.String("roblar.contact.provider", provider),
		attribute.Bool("roblar.contact.direct", direct),
	)

	start := time.Now()
	receipt, err := h.sender.Send(ctx, msg)
	elapsed := time.Since(start).Seconds()

	if err == nil {
		h.metrics.ObserveRelay(provider, "ok", direct, elapsed)
		id := receipt.MessageID
		if id == "" {
			id = notify.DefaultMessageID
		}
		return Outcome{Kind: KindSuccess, MessageID: id}
	}

	span.RecordError(err)
	var upstreamErr *notify.UpstreamError
	switch {
	case errors.As(err, &upstreamErr):
		h.metrics.ObserveRelay(provider, "upstream_error", direct, elapsed)
		return Outcome{
			Kind:    KindUpstream,
			Message: fmt.Sprintf("email provider returned status %d", upstreamErr.StatusCode),
			Err:     err,
		}
	case errors.Is(err, notify.ErrMissingAPIKey):
		h.metrics.ObserveRelay(provider, "config_error", direct, elapsed)
		return Outcome{Kind: KindConfiguration, Err: err}
	default:
		h.metrics.ObserveRelay(provider, "error", direct, elapsed)
		return Outcome{Kind: KindUnexpected, Err: err}
	}
}

func (h *Handler) logOutcome(o Outcome, mode Mode) {
	args := []any{"outcome", o.Kind, "mode", mode}
	if o.MessageID != "" {
		args = append(args, "message_id", o.MessageID)
	}
	if o.Err != nil {
		args = append(args, "error", o.Err)
	}

	switch o.Kind {
	case KindSuccess:
		h.logger.Info("contact submission relayed", args...)
	case KindHoneypot:
		h.logger.Info("contact submission dropped by honeypot", args...)
	case KindValidation, KindMalformed:
		h.logger.Warn("contact submission rejected", args...)
	default:
		h.logger.Error("contact submission failed", args...)
	}
}
