// Package prom implements the observability hooks with Prometheus metrics.
//
//	reg := prometheus.NewRegistry()
//	m := prom.New(reg)
//	m.Register()
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package prom

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/brushlink/pkg/observability"
)

const namespace = "brushlink"

// Metrics holds every collector and implements all hook interfaces.
type Metrics struct {
	loads          *prometheus.CounterVec
	loadDuration   prometheus.Histogram
	loadedRecords  prometheus.Gauge
	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	commits        *prometheus.CounterVec
	selectionSize  *prometheus.GaugeVec
	previews       *prometheus.CounterVec
	cacheOps       *prometheus.CounterVec
	cacheBytes     prometheus.Counter
	requests       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		loads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "dataset_loads_total",
			Help: "Dataset loads by outcome.",
		}, []string{"status"}),
		loadDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "dataset_load_seconds",
			Help:    "Dataset load latency.",
			Buckets: prometheus.DefBuckets,
		}),
		loadedRecords: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "dataset_records",
			Help: "Records in the most recently loaded dataset.",
		}),
		renders: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "renders_total",
			Help: "View renders by view and outcome.",
		}, []string{"view", "status"}),
		renderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "render_seconds",
			Help:    "View render latency.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"view"}),
		commits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "selection_commits_total",
			Help: "Selection store commits by originating view.",
		}, []string{"origin"}),
		selectionSize: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "selection_size",
			Help: "Size of the last committed selection by originating view.",
		}, []string{"origin"}),
		previews: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "brush_previews_total",
			Help: "Live brush previews by view.",
		}, []string{"view"}),
		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_operations_total",
			Help: "Cache operations by key type and result.",
		}, []string{"key_type", "result"}),
		cacheBytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_written_bytes_total",
			Help: "Bytes written to the cache.",
		}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total",
			Help: "API requests by method, route and status.",
		}, []string{"method", "route", "code"}),
		requestLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_seconds",
			Help:    "API request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Register installs m as every global hook.
func (m *Metrics) Register() {
	observability.SetPipelineHooks(m)
	observability.SetSelectionHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) OnLoadStart(context.Context, string) {}

func (m *Metrics) OnLoadComplete(_ context.Context, _ string, records int, d time.Duration, err error) {
	m.loads.WithLabelValues(status(err)).Inc()
	m.loadDuration.Observe(d.Seconds())
	if err == nil {
		m.loadedRecords.Set(float64(records))
	}
}

func (m *Metrics) OnRenderStart(context.Context, string, []string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, view string, _ []string, d time.Duration, err error) {
	m.renders.WithLabelValues(view, status(err)).Inc()
	m.renderDuration.WithLabelValues(view).Observe(d.Seconds())
}

func (m *Metrics) OnCommit(origin string, size int) {
	if origin == "" {
		origin = "host"
	}
	m.commits.WithLabelValues(origin).Inc()
	m.selectionSize.WithLabelValues(origin).Set(float64(size))
}

func (m *Metrics) OnPreview(view string, _ int) {
	m.previews.WithLabelValues(view).Inc()
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheOps.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.Add(float64(size))
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	method = strings.ToUpper(method)
	m.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.requestLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.PipelineHooks  = (*Metrics)(nil)
	_ observability.SelectionHooks = (*Metrics)(nil)
	_ observability.CacheHooks     = (*Metrics)(nil)
	_ observability.HTTPHooks      = (*Metrics)(nil)
)
