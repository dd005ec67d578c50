package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Render metrics
	RendersTotal   *prometheus.CounterVec
	RenderDuration *prometheus.HistogramVec
	RenderFailures *prometheus.CounterVec

	// Registry metrics
	RegistryBlueprints prometheus.Gauge

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	registry *prometheus.Registry
}

// NewMetrics creates a metrics collector on its own registry, with the
// standard Go and process collectors attached.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := NewMetricsWith(reg)
	m.registry = reg
	return m
}

// Gatherer returns the registry backing this collector for scrape handlers.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m.registry != nil {
		return m.registry
	}
	return prometheus.DefaultGatherer
}

// NewMetricsWith creates a metrics collector on a specific registerer.
// Tests use this to avoid duplicate registration on the global registry.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "engine_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "engine_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),

		RendersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "engine_renders_total",
				Help: "Total number of manifest renders by outcome",
			},
			[]string{"module", "status"},
		),
		RenderDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "engine_render_duration_seconds",
				Help:    "Manifest render duration in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"module"},
		),
		RenderFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "engine_render_failures_total",
				Help: "Render failures by error kind",
			},
			[]string{"kind"},
		),

		RegistryBlueprints: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "engine_registry_blueprints",
				Help: "Number of blueprints in the registry",
			},
		),

		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "engine_uptime_seconds",
				Help: "Service uptime in seconds",
			},
		),
	}
}

// RecordHTTPRequest records one HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordRender records one render attempt.
func (m *Metrics) RecordRender(module, status string, duration time.Duration) {
	m.RendersTotal.WithLabelValues(module, status).Inc()
	m.RenderDuration.WithLabelValues(module).Observe(duration.Seconds())
}

// RecordFailure records a render failure by error kind.
func (m *Metrics) RecordFailure(kind string) {
	m.RenderFailures.WithLabelValues(kind).Inc()
}

// SetRegistrySize updates the registry size gauge.
func (m *Metrics) SetRegistrySize(n int) {
	m.RegistryBlueprints.Set(float64(n))
}

// UpdateUptime refreshes the uptime gauge.
func (m *Metrics) UpdateUptime() {
	m.Uptime.Set(time.Since(m.startTime).Seconds())
}
