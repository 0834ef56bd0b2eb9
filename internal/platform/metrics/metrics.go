package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. Methods are
// nil-safe so unit tests can pass a nil *Metrics without registering
// collectors on the default registry.
type Metrics struct {
	RecallsInitiated prometheus.Counter
	Transitions      *prometheus.CounterVec
	EventsPublished  *prometheus.CounterVec
	EventsFailed     *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		RecallsInitiated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "guardian_recalls_initiated_total",
			Help: "Total number of recalls initiated",
		}),
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "guardian_recall_transitions_total",
			Help: "Completed recall mutations by audit action",
		}, []string{"action"}),
		EventsPublished: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "guardian_events_published_total",
			Help: "Transition events successfully published by topic",
		}, []string{"topic"}),
		EventsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "guardian_events_failed_total",
			Help: "Transition events that failed to publish by topic",
		}, []string{"topic"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "guardian_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (m *Metrics) RecallInitiated() {
	if m == nil {
		return
	}
	m.RecallsInitiated.Inc()
}

func (m *Metrics) TransitionApplied(action string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(action).Inc()
}

func (m *Metrics) EventPublished(topic string) {
	if m == nil {
		return
	}
	m.EventsPublished.WithLabelValues(topic).Inc()
}

func (m *Metrics) EventFailed(topic string) {
	if m == nil {
		return
	}
	m.EventsFailed.WithLabelValues(topic).Inc()
}

func (m *Metrics) ObserveRequest(method, route string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route).Observe(seconds)
}
