// Package metrics holds the prometheus collectors for artifact resolution and backends.
// A nil *Metrics is valid and records nothing
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Resolution paths
const (
	PathManifest = "manifest"
	PathScan     = "scan"
	PathQuery    = "query"
)

// Resolution outcomes
const (
	OutcomeHit      = "hit"
	OutcomeMiss     = "miss"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
	OutcomeStale    = "stale"
)

// Metrics bundles the collectors and the registry they live in
type Metrics struct {
	reg *prometheus.Registry

	Resolutions     *prometheus.CounterVec
	BackendDuration *prometheus.HistogramVec
	BackendErrors   *prometheus.CounterVec
	Candidates      prometheus.Histogram
}

// New builds a private registry with process and go collectors plus ours
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),

		Resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "profitscout",
				Subsystem: "resolver",
				Name:      "resolutions_total",
				Help:      "Artifact and row set resolutions by path and outcome",
			},
			[]string{"dataset", "path", "outcome"},
		),

		BackendDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "profitscout",
				Subsystem: "backend",
				Name:      "duration_seconds",
				Help:      "Backend call latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"backend", "op"},
		),

		BackendErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "profitscout",
				Subsystem: "backend",
				Name:      "errors_total",
				Help:      "Failed backend calls",
			},
			[]string{"backend", "op"},
		),

		Candidates: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "profitscout",
				Subsystem: "resolver",
				Name:      "scan_candidates",
				Help:      "Matching variants seen per catalog scan",
				Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64, 128},
			},
		),
	}

	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Resolutions,
		m.BackendDuration,
		m.BackendErrors,
		m.Candidates,
	)
	return m
}

// Registry exposes the registry for tests and custom exporters
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// Handler serves the registry in the prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Resolved counts one resolution
func (m *Metrics) Resolved(dataset, path, outcome string) {
	if m == nil {
		return
	}
	m.Resolutions.WithLabelValues(dataset, path, outcome).Inc()
}

// Scanned records how many variants one catalog scan matched
func (m *Metrics) Scanned(n int) {
	if m == nil {
		return
	}
	m.Candidates.Observe(float64(n))
}

// Backend observes one backend call started at start
func (m *Metrics) Backend(backend, op string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.BackendDuration.WithLabelValues(backend, op).Observe(time.Since(start).Seconds())
	if err != nil {
		m.BackendErrors.WithLabelValues(backend, op).Inc()
	}
}
