// Package metrics exposes prometheus collectors for the request pipeline and
// the invalidation coordinator. A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ai_creator"

// Recovery results
const (
	RecoveryConfirmed  = "confirmed"
	RecoveryCancelled  = "cancelled"
	RecoveryAutomatic  = "automatic"
	RecoveryFailed     = "failed"
	RecoverySuppressed = "suppressed"
)

type Metrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	recoveries      *prometheus.CounterVec
	inFlight        prometheus.Gauge
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered, which is what tests without a registry want.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "requests_total",
			Help:      "API requests by method and outcome classification.",
		}, []string{"method", "outcome"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "request_duration_seconds",
			Help:      "Time from dispatch to classification.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		recoveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "invalidation",
			Name:      "recoveries_total",
			Help:      "Authentication failure episodes by result.",
		}, []string{"result"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "invalidation",
			Name:      "recovery_in_flight",
			Help:      "1 while a recovery flow is running.",
		}),
	}

	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.requests, m.requestDuration, m.recoveries, m.inFlight} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) ObserveRequest(method, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, outcome).Inc()
	m.requestDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func (m *Metrics) RecoveryStarted() {
	if m == nil {
		return
	}
	m.inFlight.Set(1)
}

// RecoveryFinished records how an episode ended and clears the in-flight gauge.
func (m *Metrics) RecoveryFinished(result string) {
	if m == nil {
		return
	}
	m.inFlight.Set(0)
	m.recoveries.WithLabelValues(result).Inc()
}

// RecoverySuppressed counts failures that arrived while an episode was running
// or that carried a stale token.
func (m *Metrics) RecoverySuppressed() {
	if m == nil {
		return
	}
	m.recoveries.WithLabelValues(RecoverySuppressed).Inc()
}
