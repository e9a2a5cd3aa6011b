// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds every metric the API records
type Collector struct {
	requests     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	authAttempts *prometheus.CounterVec
	imageCleanup *prometheus.CounterVec
	gatherer     prometheus.Gatherer
}

// NewCollector creates a Collector and registers its metrics on reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coursehub_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "coursehub_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coursehub_auth_attempts_total",
			Help: "Authentication operations by outcome",
		}, []string{"operation", "outcome"}),
		imageCleanup: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coursehub_image_cleanup_total",
			Help: "Orphaned image delete retries by outcome",
		}, []string{"outcome"}),
		gatherer: prometheus.DefaultGatherer,
	}

	reg.MustRegister(c.requests, c.latency, c.authAttempts, c.imageCleanup)

	if g, ok := reg.(prometheus.Gatherer); ok {
		c.gatherer = g
	}
	return c
}

// RecordRequest records a served HTTP request
func (c *Collector) RecordRequest(method, route string, status int, d time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordAuthAttempt records the outcome of register, login, refresh or password reset
func (c *Collector) RecordAuthAttempt(operation, outcome string) {
	c.authAttempts.WithLabelValues(operation, outcome).Inc()
}

// RecordImageCleanup records one retry of a pending image delete
func (c *Collector) RecordImageCleanup(outcome string) {
	c.imageCleanup.WithLabelValues(outcome).Inc()
}

// Handler returns the Prometheus scrape handler for the collector's registry
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
