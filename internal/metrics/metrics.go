// Package metrics exposes Prometheus collectors for route optimizations.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "routeopt"

// Recorder receives one observation per finished optimization.
type Recorder interface {
	ObserveSolve(requested, used string, cities int, elapsed time.Duration)
	ObserveDowngrade(requested string)
	ObserveFallback(failed string)
	ObservePersistError(op string)
}

// Metrics is the Prometheus-backed Recorder. Each instance owns its registry
// so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	solves        *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	cities        prometheus.Histogram
	downgrades    *prometheus.CounterVec
	fallbacks     *prometheus.CounterVec
	persistErrors *prometheus.CounterVec
}

// New registers every collector (plus Go and process collectors) on a fresh
// registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solves_total",
			Help:      "Optimizations by requested and used algorithm.",
		}, []string{"requested", "used"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_duration_seconds",
			Help:      "Wall-clock solve time by used algorithm.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"used"}),
		cities: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cities_per_request",
			Help:      "Number of cities per optimization request.",
			Buckets:   []float64{2, 4, 6, 8, 10, 15, 25, 50, 100, 250},
		}),
		downgrades: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "downgrades_total",
			Help:      "Requests replaced by greedy because the instance exceeded a ceiling.",
		}, []string{"requested"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Solver failures absorbed by the greedy fallback.",
		}, []string{"failed"}),
		persistErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_errors_total",
			Help:      "Experiment store writes that failed.",
		}, []string{"op"}),
	}

	m.registry.MustRegister(
		m.solves, m.duration, m.cities, m.downgrades, m.fallbacks, m.persistErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveSolve implements Recorder.
func (m *Metrics) ObserveSolve(requested, used string, cities int, elapsed time.Duration) {
	m.solves.WithLabelValues(requested, used).Inc()
	m.duration.WithLabelValues(used).Observe(elapsed.Seconds())
	m.cities.Observe(float64(cities))
}

// ObserveDowngrade implements Recorder.
func (m *Metrics) ObserveDowngrade(requested string) {
	m.downgrades.WithLabelValues(requested).Inc()
}

// ObserveFallback implements Recorder.
func (m *Metrics) ObserveFallback(failed string) {
	m.fallbacks.WithLabelValues(failed).Inc()
}

// ObservePersistError implements Recorder.
func (m *Metrics) ObservePersistError(op string) {
	m.persistErrors.WithLabelValues(op).Inc()
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the exposition format for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Nop discards every observation.
type Nop struct{}

func (Nop) ObserveSolve(string, string, int, time.Duration) {}
func (Nop) ObserveDowngrade(string)                         {}
func (Nop) ObserveFallback(string)                          {}
func (Nop) ObservePersistError(string)                      {}
