// Package metrics collects and exposes Prometheus metrics for the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records request-level metrics for the service.
type Collector struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration prometheus.Histogram
}

// NewCollector creates a new Collector with its metrics registered on a
// dedicated registry, keeping the /metrics output free of default Go runtime
// collectors duplicated by multiple instances in tests.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tasktrack_http_requests_total",
			Help: "Total HTTP requests by method and status code",
		}, []string{"method", "status_code"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tasktrack_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	registry.MustRegister(c.requestsTotal, c.requestDuration)

	return c
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Middleware wraps an HTTP handler and records request count and latency.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		c.requestsTotal.WithLabelValues(r.Method, strconv.Itoa(ww.Status())).Inc()
		c.requestDuration.Observe(time.Since(start).Seconds())
	})
}
