package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port      string
	Env       string
	LogLevel  string
	LogFormat string

	// Email provider selection: brevo, sendgrid, ses, postmark, resend, stub
	EmailProvider   string
	UpstreamTimeout time.Duration

	// Brevo transactional email
	BrevoAPIKey   string
	BrevoBaseURL  string
	BrevoFrom     string
	BrevoFromName string
	BrevoTo       string
	BrevoToName   string

	// Alternative providers
	SendGridAPIKey       string
	PostmarkServerToken  string
	PostmarkAccountToken string
	ResendAPIKey         string

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// Contact form behaviour
	SiteName      string
	ThankYouPath  string
	HoneypotField string
	MaxBodyBytes  int64

	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "8080"),
		Env:       getEnv("ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		EmailProvider:   strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "brevo"))),
		UpstreamTimeout: getEnvAsDuration("UPSTREAM_TIMEOUT", 8*time.Second),

		BrevoAPIKey:   strings.TrimSpace(getEnv("BREVO_API_KEY", "")),
		BrevoBaseURL:  getEnv("BREVO_BASE_URL", "https://api.brevo.com/v3"),
		BrevoFrom:     getEnv("BREVO_FROM", "hola@roblartech.com"),
		BrevoFromName: getEnv("BREVO_FROM_NAME", "Roblar Tech"),
		BrevoTo:       getEnv("BREVO_TO", "hola@roblartech.com"),
		BrevoToName:   getEnv("BREVO_TO_NAME", "Roblar Tech"),

		SendGridAPIKey:       getEnv("SENDGRID_API_KEY", ""),
		PostmarkServerToken:  getEnv("POSTMARK_SERVER_TOKEN", ""),
		PostmarkAccountToken: getEnv("POSTMARK_ACCOUNT_TOKEN", ""),
		ResendAPIKey:         getEnv("RESEND_API_KEY", ""),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		SiteName:      getEnv("SITE_NAME", "RoblarTech.com"),
		ThankYouPath:  getEnv("THANK_YOU_PATH", "/thank-you"),
		HoneypotField: getEnv("HONEYPOT_FIELD", "website"),
		MaxBodyBytes:  int64(getEnvAsInt("MAX_BODY_BYTES", 1<<20)),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		RateLimitRPS:       getEnvAsFloat("RATE_LIMIT_RPS", 0),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 5),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil && value > 0 {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping empty entries.
func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
