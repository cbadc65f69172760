package api

import (
	"fuel-stop-planner/internal/api/handlers"
	"net/http"

	"go.uber.org/zap"
)

// RouterConfig carries the collaborators the HTTP surface needs.
type RouterConfig struct {
	Planner            handlers.TripPlanner
	Metrics            http.Handler // nil disables /metrics
	Logger             *zap.Logger
	RateLimitPerMinute int
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.L()
	}

	mux := http.NewServeMux()

	tripHandler := &handlers.TripHandler{Planner: cfg.Planner}
	limiter := newRateLimiter(cfg.RateLimitPerMinute)

	mux.HandleFunc("/health", handlers.Health)
	mux.Handle("/trips", limiter.middleware(http.HandlerFunc(tripHandler.Plan)))
	mux.HandleFunc("/trips/current", tripHandler.Current)
	if cfg.Metrics != nil {
		mux.Handle("/metrics", cfg.Metrics)
	}

	return requestIDMiddleware(loggingMiddleware(logger, mux))
}
