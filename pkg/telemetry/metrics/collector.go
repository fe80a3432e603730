package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config configures the Collector's namespace/subsystem and enablement.
type Config struct {
	// Enabled controls whether recorded metrics are forwarded to the
	// registry. When false, every Record/Update call is a no-op.
	Enabled bool

	// Namespace is the Prometheus metric namespace prefix.
	// Default: "policyrtd"
	Namespace string

	// Subsystem is the Prometheus metric subsystem prefix.
	// Default: "runtime"
	Subsystem string
}

// DefaultConfig returns the default metrics configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:   true,
		Namespace: "policyrtd",
		Subsystem: "runtime",
	}
}

// Collector is the session server's metrics surface: one ingest
// counter/histogram pair per policy id, a render counter per debug mode, a
// gauge sampling trace-buffer depth on each render, and a catalog reload
// counter/gauge pair.
type Collector struct {
	config   *Config
	registry *prometheus.Registry

	ingestTotal    *prometheus.CounterVec
	ingestDuration *prometheus.HistogramVec
	renderTotal    *prometheus.CounterVec
	traceDepth     *prometheus.GaugeVec

	catalogReloads    *prometheus.CounterVec
	catalogAssetCount prometheus.Gauge
}

// NewCollector creates a metrics collector registered against registry. If
// registry is nil, a fresh private registry is used.
func NewCollector(cfg *Config, registry *prometheus.Registry) *Collector {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
		ingestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "ingest_total",
			Help:      "Total events ingested per policy id.",
		}, []string{"policy_id"}),
		ingestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "ingest_duration_seconds",
			Help:      "Time to submit an event to a built policy's controller.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"policy_id"}),
		renderTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "render_total",
			Help:      "Total render calls per debug mode.",
		}, []string{"mode"}),
		traceDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "trace_buffer_depth",
			Help:      "Verbose trace lines buffered for a policy id at the moment of the last render.",
		}, []string{"policy_id"}),
		catalogReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: "catalog",
			Name:      "reload_total",
			Help:      "Catalog directory reloads, by outcome.",
		}, []string{"outcome"}),
		catalogAssetCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: "catalog",
			Name:      "asset_count",
			Help:      "Number of policy documents currently registered in the catalog.",
		}),
	}

	if cfg.Enabled {
		registry.MustRegister(
			c.ingestTotal, c.ingestDuration, c.renderTotal, c.traceDepth,
			c.catalogReloads, c.catalogAssetCount,
		)
	}

	return c
}

// RecordIngest records one Ingest call for policyID and how long the
// non-blocking submission itself took.
func (c *Collector) RecordIngest(policyID string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.ingestTotal.WithLabelValues(policyID).Inc()
	c.ingestDuration.WithLabelValues(policyID).Observe(duration.Seconds())
}

// RecordRender records one Render call at the given debug mode.
func (c *Collector) RecordRender(mode string) {
	if !c.config.Enabled {
		return
	}
	c.renderTotal.WithLabelValues(mode).Inc()
}

// SetTraceDepth samples the number of verbose trace lines buffered for
// policyID. Called once per render, after the render has drained what it
// needed.
func (c *Collector) SetTraceDepth(policyID string, depth int) {
	if !c.config.Enabled {
		return
	}
	c.traceDepth.WithLabelValues(policyID).Set(float64(depth))
}

// RecordCatalogReload records a catalog directory reload outcome
// ("success" or "failure") and the resulting asset count.
func (c *Collector) RecordCatalogReload(outcome string, assetCount int) {
	if !c.config.Enabled {
		return
	}
	c.catalogReloads.WithLabelValues(outcome).Inc()
	c.catalogAssetCount.Set(float64(assetCount))
}

// Registry returns the Prometheus registry backing this collector, for
// mounting a /metrics handler.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
