// Package metrics exposes generation and publishing counters in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

// Metrics holds the service collectors on a private registry, so several
// instances (one per test) never collide.
type Metrics struct {
	registry           *prometheus.Registry
	generations        *prometheus.CounterVec
	publishes          *prometheus.CounterVec
	generationDuration prometheus.Histogram
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		generations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "blog_generations_total",
			Help: "Blog post generation attempts by result",
		}, []string{"result"}),
		publishes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "blog_publishes_total",
			Help: "Hashnode publish attempts by result and error code",
		}, []string{"result", "code"}),
		generationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "blog_generation_duration_seconds",
			Help:    "Time spent in the generation provider",
			Buckets: []float64{1, 2.5, 5, 10, 20, 30, 60, 120},
		}),
	}
}

// ObserveGeneration records one generation attempt.
func (m *Metrics) ObserveGeneration(success bool, d time.Duration) {
	result := resultFailure
	if success {
		result = resultSuccess
	}
	m.generations.WithLabelValues(result).Inc()
	m.generationDuration.Observe(d.Seconds())
}

// ObservePublish records one publish attempt; an empty code means success.
func (m *Metrics) ObservePublish(code string) {
	result := resultSuccess
	if code != "" {
		result = resultFailure
	}
	m.publishes.WithLabelValues(result, code).Inc()
}

// Handler serves the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
