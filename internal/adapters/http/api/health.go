// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/okian/pitchfx/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadinessProvider reports whether the service accepts work.
type ReadinessProvider interface {
	IsStarted() bool
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	ready ReadinessProvider
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(ready ReadinessProvider) *HealthHandler {
	return &HealthHandler{ready: ready}
}

type healthResponse struct {
	Status string `json:"status"`
}

// HandleHealth handles GET /healthz requests. It answers 503 until the
// service has started.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	if h.ready == nil || !h.ready.IsStarted() {
		writeError(w, http.StatusServiceUnavailable, "not_ready", ErrNotReady)
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// NewMetricsHandler serves the Prometheus registry.
func NewMetricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
