// Package metrics exposes Prometheus collectors for the HTTP layer and
// the guest-facing flows.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors registered on one registry
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec

	RSVPSubmissions *prometheus.CounterVec
	ImportedRows    *prometheus.CounterVec
	Generations     *prometheus.CounterVec
}

// New registers the collectors on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "convite",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "convite",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		RSVPSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "convite",
			Name:      "rsvp_submissions_total",
			Help:      "RSVP submissions by outcome.",
		}, []string{"outcome"}),
		ImportedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "convite",
			Name:      "imported_rows_total",
			Help:      "Rows accepted or skipped by bulk imports.",
		}, []string{"kind", "result"}),
		Generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "convite",
			Name:      "message_generations_total",
			Help:      "AI message generations by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.latency,
		m.RSVPSubmissions,
		m.ImportedRows,
		m.Generations,
	)
	return m
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records request counts and latencies by route template
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.latency.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRSVP counts one submission outcome; safe on a nil receiver
func (m *Metrics) ObserveRSVP(outcome string) {
	if m == nil {
		return
	}
	m.RSVPSubmissions.WithLabelValues(outcome).Inc()
}

// ObserveImport counts accepted and skipped rows; safe on a nil receiver
func (m *Metrics) ObserveImport(kind string, imported, skipped int) {
	if m == nil {
		return
	}
	m.ImportedRows.WithLabelValues(kind, "imported").Add(float64(imported))
	m.ImportedRows.WithLabelValues(kind, "skipped").Add(float64(skipped))
}

// ObserveGeneration counts one AI call result; safe on a nil receiver
func (m *Metrics) ObserveGeneration(result string) {
	if m == nil {
		return
	}
	m.Generations.WithLabelValues(result).Inc()
}
