package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "plaque_gateway"

// Outcome labels for plate lookups.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeEmpty    = "empty"
	OutcomeError    = "error"
)

// Metrics holds the gateway collectors. A nil *Metrics is valid and records
// nothing, which keeps services usable without a registry.
type Metrics struct {
	registry *prometheus.Registry

	lookups         *prometheus.CounterVec
	lookupDuration  prometheus.Histogram
	batchSize       prometheus.Histogram
	backendRequests *prometheus.CounterVec
	assistantRuns   *prometheus.CounterVec
}

// New registers the collectors on registry, or on a fresh registry with the
// Go and process collectors when registry is nil.
func New(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m := &Metrics{
		registry: registry,
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "vehicle",
			Name:      "lookups_total",
			Help:      "Plate lookups by outcome.",
		}, []string{"outcome"}),
		lookupDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "vehicle",
			Name:      "lookup_duration_seconds",
			Help:      "Duration of registration provider calls.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 15},
		}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "vehicle",
			Name:      "batch_size",
			Help:      "Number of plates per batch request.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		}),
		backendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "requests_total",
			Help:      "Backend relay calls by resource and status code (0 on transport failure).",
		}, []string{"resource", "code"}),
		assistantRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assistant",
			Name:      "runs_total",
			Help:      "Assistant command runs by outcome.",
		}, []string{"outcome"}),
	}

	registry.MustRegister(m.lookups, m.lookupDuration, m.batchSize, m.backendRequests, m.assistantRuns)
	return m
}

func (m *Metrics) ObserveLookup(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(outcome).Inc()
	if outcome != OutcomeEmpty {
		m.lookupDuration.Observe(d.Seconds())
	}
}

func (m *Metrics) ObserveBatch(size int) {
	if m == nil {
		return
	}
	m.batchSize.Observe(float64(size))
}

func (m *Metrics) ObserveBackend(resource string, code int) {
	if m == nil {
		return
	}
	m.backendRequests.WithLabelValues(resource, strconv.Itoa(code)).Inc()
}

func (m *Metrics) ObserveAssistant(outcome string) {
	if m == nil {
		return
	}
	m.assistantRuns.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
