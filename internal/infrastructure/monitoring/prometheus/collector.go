// Package prometheus registers the engine's operational metrics on a private
// registry and serves them in the Prometheus exposition format.  Callers see
// small interfaces rather than client_golang types so tests and disabled
// deployments can swap in no-op implementations.
package prometheus

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/turtacn/precinct-analytics/internal/infrastructure/monitoring/logging"
)

// MetricsCollector registers metric vectors and exposes them over HTTP.
type MetricsCollector interface {
	RegisterCounter(name, help string, labels ...string) CounterVec
	RegisterGauge(name, help string, labels ...string) GaugeVec
	RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec
	Handler() http.Handler
	Gatherer() prometheus.Gatherer
}

// CounterVec wraps prometheus.CounterVec.
type CounterVec interface {
	WithLabelValues(lvs ...string) Counter
}

// Counter wraps prometheus.Counter.
type Counter interface {
	Inc()
	Add(delta float64)
}

// GaugeVec wraps prometheus.GaugeVec.
type GaugeVec interface {
	WithLabelValues(lvs ...string) Gauge
}

// Gauge wraps prometheus.Gauge.
type Gauge interface {
	Set(value float64)
	Inc()
	Dec()
}

// HistogramVec wraps prometheus.HistogramVec.
type HistogramVec interface {
	WithLabelValues(lvs ...string) Histogram
}

// Histogram wraps prometheus.Observer.
type Histogram interface {
	Observe(value float64)
}

// CollectorConfig configures NewMetricsCollector.  Namespace prefixes every
// metric name; Subsystem, when set, sits between namespace and name.
type CollectorConfig struct {
	Namespace            string
	Subsystem            string
	EnableProcessMetrics bool
	EnableGoMetrics      bool
	// Buckets used by RegisterHistogram when the caller passes nil.
	DefaultBuckets []float64
}

type prometheusCollector struct {
	registry *prometheus.Registry
	cfg      CollectorConfig
	logger   logging.Logger

	mu     sync.Mutex
	byName map[string]prometheus.Collector
}

// NewMetricsCollector creates a collector backed by a fresh registry, so two
// engines in one process never collide on metric names.
func NewMetricsCollector(cfg CollectorConfig, logger logging.Logger) (MetricsCollector, error) {
	if cfg.Namespace == "" {
		return nil, fmt.Errorf("prometheus: namespace is required")
	}
	if len(cfg.DefaultBuckets) == 0 {
		cfg.DefaultBuckets = prometheus.DefBuckets
	}

	reg := prometheus.NewRegistry()
	if cfg.EnableProcessMetrics {
		reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: cfg.Namespace}))
	}
	if cfg.EnableGoMetrics {
		reg.MustRegister(collectors.NewGoCollector())
	}

	return &prometheusCollector{
		registry: reg,
		cfg:      cfg,
		logger:   logging.OrNop(logger),
		byName:   make(map[string]prometheus.Collector),
	}, nil
}

func (c *prometheusCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (c *prometheusCollector) Gatherer() prometheus.Gatherer { return c.registry }

func (c *prometheusCollector) fqName(name string) string {
	return prometheus.BuildFQName(c.cfg.Namespace, c.cfg.Subsystem, name)
}

// registerVec registers fresh under name, or returns the vector already
// registered under that name.  A registration failure or a name reused with a
// different metric type yields ok=false.
func registerVec[V prometheus.Collector](c *prometheusCollector, name, kind string, fresh V) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	fq := c.fqName(name)
	if existing, found := c.byName[fq]; found {
		v, same := existing.(V)
		if !same {
			c.logger.Warn("metric type mismatch", logging.String("name", fq), logging.String("type", kind))
			return zero, false
		}
		return v, true
	}
	if err := c.registry.Register(fresh); err != nil {
		c.logger.Error("metric registration failed",
			logging.String("name", fq), logging.String("type", kind), logging.Err(err))
		return zero, false
	}
	c.byName[fq] = fresh
	return fresh, true
}

func (c *prometheusCollector) RegisterCounter(name, help string, labels ...string) CounterVec {
	opts := prometheus.CounterOpts{Namespace: c.cfg.Namespace, Subsystem: c.cfg.Subsystem, Name: name, Help: help}
	if v, ok := registerVec(c, name, "counter", prometheus.NewCounterVec(opts, labels)); ok {
		return &promCounterVec{vec: v}
	}
	return noopCounterVec{}
}

func (c *prometheusCollector) RegisterGauge(name, help string, labels ...string) GaugeVec {
	opts := prometheus.GaugeOpts{Namespace: c.cfg.Namespace, Subsystem: c.cfg.Subsystem, Name: name, Help: help}
	if v, ok := registerVec(c, name, "gauge", prometheus.NewGaugeVec(opts, labels)); ok {
		return &promGaugeVec{vec: v}
	}
	return noopGaugeVec{}
}

func (c *prometheusCollector) RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec {
	if len(buckets) == 0 {
		buckets = c.cfg.DefaultBuckets
	}
	opts := prometheus.HistogramOpts{
		Namespace: c.cfg.Namespace,
		Subsystem: c.cfg.Subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}
	if v, ok := registerVec(c, name, "histogram", prometheus.NewHistogramVec(opts, labels)); ok {
		return &promHistogramVec{vec: v}
	}
	return noopHistogramVec{}
}

// ---------------------------------------------------------------------------
// client_golang adapters
// ---------------------------------------------------------------------------

type promCounterVec struct{ vec *prometheus.CounterVec }

func (v *promCounterVec) WithLabelValues(lvs ...string) Counter { return v.vec.WithLabelValues(lvs...) }

type promGaugeVec struct{ vec *prometheus.GaugeVec }

func (v *promGaugeVec) WithLabelValues(lvs ...string) Gauge { return v.vec.WithLabelValues(lvs...) }

type promHistogramVec struct{ vec *prometheus.HistogramVec }

func (v *promHistogramVec) WithLabelValues(lvs ...string) Histogram {
	return v.vec.WithLabelValues(lvs...)
}

// ---------------------------------------------------------------------------
// No-op implementations
// ---------------------------------------------------------------------------

type noopCounterVec struct{}

func (noopCounterVec) WithLabelValues(...string) Counter { return noopMetric{} }

type noopGaugeVec struct{}

func (noopGaugeVec) WithLabelValues(...string) Gauge { return noopMetric{} }

type noopHistogramVec struct{}

func (noopHistogramVec) WithLabelValues(...string) Histogram { return noopMetric{} }

type noopMetric struct{}

func (noopMetric) Inc()            {}
func (noopMetric) Dec()            {}
func (noopMetric) Add(float64)     {}
func (noopMetric) Set(float64)     {}
func (noopMetric) Observe(float64) {}

//Personal.AI order the ending
