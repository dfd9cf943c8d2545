// Package prometheus instruments schemadex services with Prometheus metrics.
package prometheus

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/schemadex"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "schemadex"

// Metrics holds the collectors of one process.
type Metrics struct {
	registry *prometheus.Registry

	SourceReadsTotal    *prometheus.CounterVec
	SourceReadDuration  prometheus.Histogram
	SourceBytesTotal    prometheus.Counter
	SearchesTotal       *prometheus.CounterVec
	SearchDuration      prometheus.Histogram
	SearchResults       prometheus.Histogram
	CatalogBuildsTotal  prometheus.Counter
	CatalogEntities     prometheus.Gauge
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on registry.
// A nil registry gets a fresh one.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	m := &Metrics{
		registry: registry,
		SourceReadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "source_reads_total",
				Help:      "Source file reads by result code.",
			},
			[]string{"code"},
		),
		SourceReadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "source_read_duration_seconds",
			Help:      "Source file read duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}),
		SourceBytesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "source_bytes_total",
			Help:      "Bytes read from source files.",
		}),
		SearchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "searches_total",
				Help:      "Searches by query mode.",
			},
			[]string{"mode"},
		),
		SearchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_duration_seconds",
			Help:      "Search duration in seconds.",
			Buckets:   []float64{.00001, .0001, .001, .01, .1, 1},
		}),
		SearchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_results",
			Help:      "Number of entities returned per search.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		CatalogBuildsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "catalog_builds_total",
			Help:      "Completed catalog builds.",
		}),
		CatalogEntities: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "catalog_entities",
			Help:      "Entities in the served catalog.",
		}),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route, method and status.",
			},
			[]string{"route", "method", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
	}

	registry.MustRegister(
		m.SourceReadsTotal,
		m.SourceReadDuration,
		m.SourceBytesTotal,
		m.SearchesTotal,
		m.SearchDuration,
		m.SearchResults,
		m.CatalogBuildsTotal,
		m.CatalogEntities,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveCatalog records a completed build producing c.
func (m *Metrics) ObserveCatalog(c *schemadex.Catalog) {
	m.CatalogBuildsTotal.Inc()
	m.CatalogEntities.Set(float64(c.Len()))
}

// Ensure SourceReader implements schemadex.SourceReader.
var _ schemadex.SourceReader = (*SourceReader)(nil)

// SourceReader counts and times reads of the wrapped reader.
type SourceReader struct {
	next    schemadex.SourceReader
	metrics *Metrics
}

// NewSourceReader wraps next.
func NewSourceReader(next schemadex.SourceReader, metrics *Metrics) *SourceReader {
	return &SourceReader{next: next, metrics: metrics}
}

func (r *SourceReader) ReadFile(ctx context.Context, name string) (string, error) {
	begin := time.Now()
	text, err := r.next.ReadFile(ctx, name)
	r.metrics.SourceReadDuration.Observe(time.Since(begin).Seconds())

	code := "ok"
	if err != nil {
		code = schemadex.ErrorCode(err)
	}
	r.metrics.SourceReadsTotal.WithLabelValues(code).Inc()
	r.metrics.SourceBytesTotal.Add(float64(len(text)))
	return text, err
}

// Ensure Browser implements schemadex.Browser.
var _ schemadex.Browser = (*Browser)(nil)

// Browser counts and times searches of the wrapped browser.
type Browser struct {
	next    schemadex.Browser
	metrics *Metrics
}

// NewBrowser wraps next.
func NewBrowser(next schemadex.Browser, metrics *Metrics) *Browser {
	return &Browser{next: next, metrics: metrics}
}

func (b *Browser) Search(query string) []string {
	begin := time.Now()
	names := b.next.Search(query)
	b.observe(query, len(names), begin)
	return names
}

func (b *Browser) ListEntities(query string) []schemadex.ListItem {
	begin := time.Now()
	items := b.next.ListEntities(query)
	b.observe(query, len(items), begin)
	return items
}

func (b *Browser) GetEntity(name string) *schemadex.Entity {
	return b.next.GetEntity(name)
}

func (b *Browser) observe(query string, n int, begin time.Time) {
	b.metrics.SearchDuration.Observe(time.Since(begin).Seconds())
	b.metrics.SearchesTotal.WithLabelValues(schemadex.ParseQuery(query).Mode.String()).Inc()
	b.metrics.SearchResults.Observe(float64(n))
}

// Middleware records request counts and durations labelled by route
// template, which keeps label cardinality bounded.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		begin := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		m.HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(begin).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
