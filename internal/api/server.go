// Package api provides the HTTP server for the shiftdesk dashboard.
// It exposes login, summary, period, task, and acknowledgment endpoints
// to the frontend.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shiftdesk/shiftdesk/internal/app/ledger"
	"github.com/shiftdesk/shiftdesk/internal/domain"
	"github.com/shiftdesk/shiftdesk/internal/infra/cache"
)

// Server is the shiftdesk HTTP API server.
type Server struct {
	store           domain.Store
	snapshots       *cache.SnapshotCache
	ledger          *ledger.Engine
	fallbackPeriods []string
	allowedOrigin   string
	metricsEnabled  bool
	now             func() time.Time
}

// NewServer creates a new API server. fallbackPeriods is the system-wide
// boundary list used when a user has no period-bearing groups.
func NewServer(store domain.Store, snapshots *cache.SnapshotCache, eng *ledger.Engine, fallbackPeriods []string) *Server {
	return &Server{
		store:           store,
		snapshots:       snapshots,
		ledger:          eng,
		fallbackPeriods: fallbackPeriods,
		allowedOrigin:   "*",
		now:             time.Now,
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetAllowedOrigin restricts CORS to the given origin.
func (s *Server) SetAllowedOrigin(origin string) {
	if origin != "" {
		s.allowedOrigin = origin
	}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(s.corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Get("/users", s.handleListUsers)
		r.Get("/users/{id}/summary", s.handleUserSummary)
		r.Get("/periods", s.handlePeriods)
		r.Get("/tasks", s.handleTasks)
		r.Post("/acknowledge", s.handleAcknowledge)
		r.Post("/profile", s.handleUpdateProfile)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// ─── Response Helpers ───────────────────────────────────────────────────────

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"message": msg,
	})
}

// writeDomainError maps a domain error to its HTTP status. Infrastructure
// failures are logged and surfaced as a generic server error without
// internal detail.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrTaskNotFound),
		errors.Is(err, domain.ErrPayscaleNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrStateConflict):
		writeError(w, http.StatusConflict, "concurrent update, retry")
	default:
		log.Printf("api: internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "server error")
	}
}

// corsMiddleware adds CORS headers for the dashboard frontend.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
