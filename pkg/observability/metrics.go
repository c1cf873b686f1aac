package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Metrics records backend calls and superseded package requests.
type Metrics struct {
	requests   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	superseded prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered, which is handy in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wanderbuddy_backend_requests_total",
				Help: "Total number of backend calls by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wanderbuddy_backend_request_duration_seconds",
				Help:    "Duration of backend calls",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"operation"},
		),
		superseded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "wanderbuddy_package_requests_superseded_total",
				Help: "Package responses discarded because a newer request was issued",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.duration, m.superseded)
	}
	return m
}

// ObserveRequest records one backend call.
func (m *Metrics) ObserveRequest(operation, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(operation, outcome).Inc()
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// IncSuperseded counts a discarded stale response.
func (m *Metrics) IncSuperseded() {
	if m == nil {
		return
	}
	m.superseded.Inc()
}

// Requests exposes the request counter for assertions.
func (m *Metrics) Requests() *prometheus.CounterVec { return m.requests }

// Superseded exposes the superseded counter for assertions.
func (m *Metrics) Superseded() prometheus.Counter { return m.superseded }
