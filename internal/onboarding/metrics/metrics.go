// Package metrics exposes Prometheus instrumentation for onboarding
// submissions, approvals and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	submissions *prometheus.CounterVec
	approvals   *prometheus.CounterVec
	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "onboarding",
			Name:      "submissions_total",
			Help:      "Onboarding request submissions by result.",
		}, []string{"result"}),
		approvals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "onboarding",
			Name:      "approvals_total",
			Help:      "Onboarding request approvals by result.",
		}, []string{"result"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "onboarding",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP API requests by route and status code.",
		}, []string{"route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "onboarding",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP API latency by route.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"route"}),
	}
	reg.MustRegister(m.submissions, m.approvals, m.requests, m.latency)
	return m
}

func (m *Metrics) ObserveSubmission(result string) {
	m.submissions.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveApproval(result string) {
	m.approvals.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveHTTP(route string, code int, elapsed time.Duration) {
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.latency.WithLabelValues(route).Observe(elapsed.Seconds())
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
