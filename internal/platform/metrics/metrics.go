package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	ApplicationsSubmitted *prometheus.CounterVec
	ApplicationsDecided   *prometheus.CounterVec
	PaymentsCompleted     prometheus.Counter
	SponsorsNotFound      prometheus.Counter
	AdminLogins           *prometheus.CounterVec
	RequestDuration       *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ApplicationsSubmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "memberdesk_applications_submitted_total",
			Help: "Membership applications accepted, by computed category",
		}, []string{"category"}),
		ApplicationsDecided: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "memberdesk_applications_decided_total",
			Help: "Admin decisions on applications",
		}, []string{"decision"}),
		PaymentsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "memberdesk_payments_completed_total",
			Help: "Applications whose payment was marked completed",
		}),
		SponsorsNotFound: promauto.NewCounter(prometheus.CounterOpts{
			Name: "memberdesk_sponsors_not_found_total",
			Help: "Sponsor names that did not match an approved member",
		}),
		AdminLogins: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "memberdesk_admin_logins_total",
			Help: "Admin login attempts by result",
		}, []string{"result"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "memberdesk_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status class",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "status"}),
	}
}
