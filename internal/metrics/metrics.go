// Package metrics defines the Prometheus collectors of the gateway.
// Collectors live on a private registry so tests can create as many as
// they need. A nil *Metrics records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Job outcomes.
const (
	OutcomeDone    = "done"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
	OutcomeInvalid = "invalid"
)

// Metrics holds the registered collectors.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	searchDuration prometheus.Histogram
	jobs           *prometheus.CounterVec
	ingestsCreated *prometheus.CounterVec
}

// New creates and registers every collector.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "neugrove_http_requests_total",
			Help: "Total HTTP requests by route and status",
		}, []string{"method", "route", "status"}),

		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "neugrove_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),

		searchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "neugrove_search_duration_seconds",
			Help:    "Embeddings search latency including query embedding",
			Buckets: prometheus.DefBuckets,
		}),

		jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "neugrove_ingest_jobs_total",
			Help: "Background ingest jobs by kind and outcome",
		}, []string{"kind", "outcome"}),

		ingestsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "neugrove_ingests_created_total",
			Help: "Accepted ingest requests by kind",
		}, []string{"kind"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.searchDuration,
		m.jobs,
		m.ingestsCreated,
	)
	return m
}

// Registry exposes the registry for custom gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveSearch records one similarity search.
func (m *Metrics) ObserveSearch(d time.Duration) {
	if m == nil {
		return
	}
	m.searchDuration.Observe(d.Seconds())
}

// JobFinished counts a consumed job.
func (m *Metrics) JobFinished(kind, outcome string) {
	if m == nil {
		return
	}
	m.jobs.WithLabelValues(kind, outcome).Inc()
}

// IngestCreated counts an accepted ingest ("file", "text", "url").
func (m *Metrics) IngestCreated(kind string) {
	if m == nil {
		return
	}
	m.ingestsCreated.WithLabelValues(kind).Inc()
}
