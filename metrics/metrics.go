// Package metrics holds the Prometheus collector shared by the live session
// and the HTTP server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application. Each collector
// owns its registry, so tests can create as many as they like.
type Collector struct {
	registry *prometheus.Registry

	// Parser metrics
	Parses        prometheus.Counter
	Relationships prometheus.Counter
	LinesDropped  prometheus.Counter
	ParseDuration prometheus.Histogram

	// HTTP metrics
	HTTPRequests   *prometheus.CounterVec
	SSESubscribers prometheus.Gauge
}

// NewCollector creates a collector with the given namespace.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		Parses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parses_total",
			Help:      "Total number of descriptions parsed",
		}),
		Relationships: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relationships_parsed_total",
			Help:      "Total number of relationships produced by the parser",
		}),
		LinesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_dropped_total",
			Help:      "Total number of non-empty lines the parser rejected",
		}),
		ParseDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_duration_seconds",
			Help:      "Time spent parsing one description",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		SSESubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sse_subscribers",
			Help:      "Number of connected event stream subscribers",
		}),
	}

	c.registry.MustRegister(
		c.Parses,
		c.Relationships,
		c.LinesDropped,
		c.ParseDuration,
		c.HTTPRequests,
		c.SSESubscribers,
	)
	return c
}

// ObserveParse records one parse. A nil collector is a no-op.
func (c *Collector) ObserveParse(relationships, dropped int, took time.Duration) {
	if c == nil {
		return
	}
	c.Parses.Inc()
	c.Relationships.Add(float64(relationships))
	c.LinesDropped.Add(float64(dropped))
	c.ParseDuration.Observe(took.Seconds())
}

// ObserveRequest records one HTTP response. A nil collector is a no-op.
func (c *Collector) ObserveRequest(method, route string, status int) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
