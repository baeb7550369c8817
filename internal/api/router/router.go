package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpmiddleware "github.com/wolfman30/lead-intake/internal/http/middleware"
	"github.com/wolfman30/lead-intake/pkg/logging"
)

// SubmitLeadPath is where the lead form posts.
const SubmitLeadPath = "/submit-lead"

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	LeadsHandler   http.Handler
	MetricsHandler http.Handler

	// Burst throttle in front of the lead handler. Zero rate disables it.
	BurstRatePerSec float64
	BurstSize       int
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

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.LeadsHandler != nil {
		r.Group(func(leadRoutes chi.Router) {
			if cfg.BurstRatePerSec > 0 {
				burst := cfg.BurstSize
				if burst <= 0 {
					burst = 1
				}
				leadRoutes.Use(httpmiddleware.RateLimit(cfg.BurstRatePerSec, burst))
			}
			// The handler answers OPTIONS and 405 itself, so every method is routed to it.
			leadRoutes.Handle(SubmitLeadPath, cfg.LeadsHandler)
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
