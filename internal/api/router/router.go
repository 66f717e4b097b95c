package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vitalpoint/kiosk/internal/appointments"
	"github.com/vitalpoint/kiosk/internal/doctors"
	httpmiddleware "github.com/vitalpoint/kiosk/internal/http/middleware"
	"github.com/vitalpoint/kiosk/internal/vitals"
	"github.com/vitalpoint/kiosk/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger            *logging.Logger
	VitalsHandler     *vitals.Handler
	DoctorsHandler    *doctors.Handler
	SchedulingHandler *appointments.Handler

	AdminAuthSecret    string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Per-kiosk rate limiting for the public API; zero disables it.
	RateLimitPerSec float64
	RateLimitBurst  int
}

// New creates a chi router with all kiosk routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(api chi.Router) {
		if cfg.RateLimitPerSec > 0 {
			api.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSec, cfg.RateLimitBurst))
		}

		if h := cfg.DoctorsHandler; h != nil {
			api.Get("/doctors", h.ListActive)
			api.Get("/doctors/{doctorID}", h.GetByID)
		}

		if h := cfg.SchedulingHandler; h != nil {
			api.Get("/doctors/{doctorID}/slots", h.GetAvailableSlots)
			api.Post("/appointments", h.Book)
			api.Delete("/appointments/{appointmentID}", h.Cancel)
			api.Get("/patients/{patientID}/appointments", h.ListByPatient)
		}

		if h := cfg.VitalsHandler; h != nil {
			api.Get("/vitals/definitions", h.ListDefinitions)
			api.Route("/patients/{patientID}/vitals", func(r chi.Router) {
				r.Post("/", h.Collect)
				r.Get("/", h.CurrentValues)
				r.Delete("/", h.ClearSession)
				r.Get("/summary", h.GetSummary)
				r.Get("/score", h.GetScore)
				r.Get("/export", h.Export)
			})
		}
	})

	// Doctor administration. Left unregistered entirely when no secret is
	// configured.
	if cfg.AdminAuthSecret != "" && cfg.DoctorsHandler != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Mount("/doctors", cfg.DoctorsHandler.AdminRoutes())
		})
	}

	return r
}
