// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/okian/dailyword/internal/adapters/http/site"
	"github.com/okian/dailyword/internal/adapters/http/swagger"
	"github.com/okian/dailyword/internal/domain/clock"
	"github.com/okian/dailyword/internal/domain/model"
)

// corsMaxAge is how long browsers may cache a preflight response, in seconds.
const corsMaxAge = 300

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// GetDailyWord never fails; an invalid override means today.
	GetDailyWord(ctx context.Context, todayOverride string) model.DailyWord

	// GetFallbackWord is pure and never touches the store.
	GetFallbackWord(today string) model.DailyWord

	Clock() *clock.Clock
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	wordHandler   *WordHandler
	clockHandler  *ClockHandler

	allowedOrigins []string
	requestTimeout time.Duration
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		wordHandler:    NewWordHandler(deps),
		clockHandler:   NewClockHandler(deps),
		allowedOrigins: []string{"*"},
		requestTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the chi router with every route attached.
func (s *Server) Router(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.requestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         corsMaxAge,
	}))

	s.Register(ctx, r)
	swagger.Register(ctx, r)
	site.Register(ctx, r)
	return r
}

// Register attaches the API routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/metrics", MetricsMiddleware(s.healthHandler.HandleMetrics, "metrics"))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	r.Get("/daily-word", MetricsMiddleware(s.wordHandler.HandleDailyWord, "daily_word"))
	r.Get("/daily-word/fallback", MetricsMiddleware(s.wordHandler.HandleFallback, "daily_word_fallback"))
	r.Get("/clock", MetricsMiddleware(s.clockHandler.HandleClock, "clock"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
