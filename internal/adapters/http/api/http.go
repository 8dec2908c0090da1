// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/pitchfx/internal/adapters/repository"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ReadinessProvider
	StatsProvider
	StoreProvider
}

// Server wires HTTP routes for the operational API.
type Server struct {
	healthHandler  *HealthHandler
	metricsHandler http.Handler
	statsHandler   *StatsHandler
	gamesHandler   *GamesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, maxLimit int) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(deps),
		metricsHandler: NewMetricsHandler(),
		statsHandler:   NewStatsHandler(deps),
		gamesHandler:   NewGamesHandler(deps, maxLimit),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", MetricsMiddleware(s.metricsHandler.ServeHTTP, "metrics"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/games", MetricsMiddleware(s.gamesHandler.HandleListGames, "games"))
	mux.HandleFunc("/games/", MetricsMiddleware(s.gamesHandler.HandleGetGame, "game"))
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

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
