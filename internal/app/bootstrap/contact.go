package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/roblartech/contact-relay/internal/api/router"
	"github.com/roblartech/contact-relay/internal/contact"
	appconfig "github.com/roblartech/contact-relay/internal/config"
	"github.com/roblartech/contact-relay/internal/notify"
	"github.com/roblartech/contact-relay/internal/observability/metrics"
	"github.com/roblartech/contact-relay/pkg/logging"
)

// App is the wired HTTP surface shared by cmd/api and cmd/lambda.
type App struct {
	Handler http.Handler

	// Sender is nil when SenderErr is set; the endpoint then answers every
	// submission with a configuration failure.
	Sender    notify.Sender
	SenderErr error
}

// BuildSender creates the email sender selected by EMAIL_PROVIDER.
func BuildSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (notify.Sender, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	senderCfg := notify.SenderConfig{
		Provider:             cfg.EmailProvider,
		Timeout:              cfg.UpstreamTimeout,
		BrevoAPIKey:          cfg.BrevoAPIKey,
		BrevoBaseURL:         cfg.BrevoBaseURL,
		SendGridAPIKey:       cfg.SendGridAPIKey,
		PostmarkServerToken:  cfg.PostmarkServerToken,
		PostmarkAccountToken: cfg.PostmarkAccountToken,
		ResendAPIKey:         cfg.ResendAPIKey,
	}
	if cfg.EmailProvider == notify.ProviderSES {
		awsCfg, err := LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: load aws config: %w", err)
		}
		senderCfg.SESClient = NewSESClient(awsCfg, cfg.AWSEndpointOverride)
	}
	return notify.NewSender(senderCfg, logger)
}

// Build wires configuration, metrics and the email sender into the router.
// A sender that cannot be built is logged and reported on App, never fatal.
func Build(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, reg *prometheus.Registry) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	sender, err := BuildSender(ctx, cfg, logger)
	if err != nil {
		logger.Error("email sender unavailable; contact submissions will fail",
			"provider", cfg.EmailProvider,
			"error", err,
		)
	} else {
		logger.Info("email sender ready", "provider", sender.Provider())
	}

	contactHandler := contact.NewHandler(contact.Config{
		Sender:    sender,
		SenderErr: err,
		Identity: contact.Identity{
			Sender:    notify.Address{Email: cfg.BrevoFrom, Name: cfg.BrevoFromName},
			Recipient: notify.Address{Email: cfg.BrevoTo, Name: cfg.BrevoToName},
			SiteName:  cfg.SiteName,
		},
		ThankYouPath:  cfg.ThankYouPath,
		HoneypotField: cfg.HoneypotField,
		MaxBodyBytes:  cfg.MaxBodyBytes,
		Metrics:       metrics.NewContactMetrics(reg),
		Logger:        logger,
	})

	handler := router.New(&router.Config{
		Logger:             logger,
		ContactHandler:     contactHandler,
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitBurst:     cfg.RateLimitBurst,
	})

	return &App{Handler: handler, Sender: sender, SenderErr: err}, nil
}
