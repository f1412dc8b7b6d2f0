package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/roblartech/contact-relay/internal/contact"
	httpmiddleware "github.com/roblartech/contact-relay/internal/http/middleware"
	"github.com/roblartech/contact-relay/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	ContactHandler     *contact.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Inbound per-client limit on the contact endpoint. Zero disables it.
	RateLimitRPS   float64
	RateLimitBurst int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	if cfg.ContactHandler != nil {
		r.Route(contact.Path, func(cr chi.Router) {
			cr.Get("/", cfg.ContactHandler.Health)
			cr.With(httpmiddleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst)).
				Post("/", cfg.ContactHandler.Submit)
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
