// Package prometheus instruments sitemapper services with Prometheus metrics.
package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result label values.
const (
	ResultOK      = "ok"
	ResultError   = "error"
	ResultInvalid = "invalid"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	FetchesTotal        *prometheus.CounterVec
	FetchDuration       prometheus.Histogram
	CrawlsTotal         *prometheus.CounterVec
	CrawlPages          prometheus.Histogram
	CrawlDuration       prometheus.Histogram
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// NewMetrics registers all metrics on a fresh registry, together with the
// Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := newMetrics(reg)
	m.registry = reg
	return m
}

func newMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FetchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sitemapper_fetches_total",
			Help: "The total number of page fetches",
		}, []string{"result"}),
		FetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "sitemapper_fetch_duration_seconds",
			Help:    "Duration of page fetches",
			Buckets: prometheus.DefBuckets,
		}),
		CrawlsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sitemapper_crawls_total",
			Help: "The total number of crawls",
		}, []string{"result"}),
		CrawlPages: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "sitemapper_crawl_pages",
			Help:    "Number of sitemap entries produced per crawl",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		CrawlDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "sitemapper_crawl_duration_seconds",
			Help:    "Duration of complete crawls",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the exposition handler for the metrics registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
