// Package http assembles the service router: shared middleware, public and
// admin routes, health, and metrics.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adminhandler "memberdesk/internal/admin/handler"
	membershiphandler "memberdesk/internal/membership/handler"
	"memberdesk/internal/platform/metrics"
	"memberdesk/internal/platform/middleware"
)

// NewRouter builds the full route tree.
func NewRouter(
	public *membershiphandler.Handler,
	admin *adminhandler.Handler,
	m *metrics.Metrics,
	logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Latency(m))

	public.Register(r)
	admin.Register(r)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
