package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ENV", "LOG_LEVEL", "EMAIL_PROVIDER", "BREVO_API_KEY", "BREVO_FROM",
		"BREVO_TO", "UPSTREAM_TIMEOUT", "THANK_YOU_PATH", "HONEYPOT_FIELD",
		"CORS_ALLOWED_ORIGINS", "RATE_LIMIT_RPS", "MAX_BODY_BYTES",
	} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.EmailProvider != "brevo" {
		t.Fatalf("expected brevo provider by default, got %s", cfg.EmailProvider)
	}
	if cfg.BrevoAPIKey != "" {
		t.Fatalf("expected empty api key, got %q", cfg.BrevoAPIKey)
	}
	if cfg.BrevoFrom != "hola@roblartech.com" || cfg.BrevoFromName != "Roblar Tech" {
		t.Fatalf("unexpected sender defaults: %s / %s", cfg.BrevoFrom, cfg.BrevoFromName)
	}
	if cfg.BrevoTo != "hola@roblartech.com" {
		t.Fatalf("unexpected recipient default: %s", cfg.BrevoTo)
	}
	if cfg.UpstreamTimeout != 8*time.Second {
		t.Fatalf("expected 8s upstream timeout, got %s", cfg.UpstreamTimeout)
	}
	if cfg.ThankYouPath != "/thank-you" {
		t.Fatalf("unexpected thank you path %s", cfg.ThankYouPath)
	}
	if cfg.HoneypotField != "website" {
		t.Fatalf("unexpected honeypot field %s", cfg.HoneypotField)
	}
	if cfg.MaxBodyBytes != 1<<20 {
		t.Fatalf("unexpected max body bytes %d", cfg.MaxBodyBytes)
	}
	if len(cfg.CORSAllowedOrigins) != 0 {
		t.Fatalf("expected no cors origins, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.RateLimitRPS != 0 {
		t.Fatalf("expected rate limiting disabled, got %v", cfg.RateLimitRPS)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("EMAIL_PROVIDER", " SES ")
	t.Setenv("BREVO_API_KEY", " xkeysib-123 ")
	t.Setenv("BREVO_TO", "leads@example.com")
	t.Setenv("UPSTREAM_TIMEOUT", "3s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://roblartech.com, ,https://www.roblartech.com")
	t.Setenv("RATE_LIMIT_RPS", "0.5")
	t.Setenv("RATE_LIMIT_BURST", "3")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Fatalf("expected env override, got %s", cfg.Env)
	}
	if cfg.EmailProvider != "ses" {
		t.Fatalf("expected normalized provider, got %q", cfg.EmailProvider)
	}
	if cfg.BrevoAPIKey != "xkeysib-123" {
		t.Fatalf("expected trimmed api key, got %q", cfg.BrevoAPIKey)
	}
	if cfg.BrevoTo != "leads@example.com" {
		t.Fatalf("expected recipient override, got %s", cfg.BrevoTo)
	}
	if cfg.UpstreamTimeout != 3*time.Second {
		t.Fatalf("expected timeout override, got %s", cfg.UpstreamTimeout)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://www.roblartech.com" {
		t.Fatalf("unexpected origins %v", cfg.CORSAllowedOrigins)
	}
	if cfg.RateLimitRPS != 0.5 || cfg.RateLimitBurst != 3 {
		t.Fatalf("unexpected rate limit %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
}

func TestInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("UPSTREAM_TIMEOUT", "soon")
	if got := Load().UpstreamTimeout; got != 8*time.Second {
		t.Fatalf("expected fallback timeout, got %s", got)
	}
}
