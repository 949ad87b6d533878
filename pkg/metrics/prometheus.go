package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// =============================================================================
// Prometheus Collector
// =============================================================================

// PrometheusCollector implements the Collector interface using Prometheus.
// Metrics are registered lazily on first use, keyed by name; the label
// names of the first call define the metric's label set.
type PrometheusCollector struct {
	mu sync.Mutex

	registry *prometheus.Registry

	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec

	namespace string
}

// PrometheusConfig configures the Prometheus collector.
type PrometheusConfig struct {
	// Namespace prefixes all metric names (e.g., "defisentry")
	Namespace string

	// Registry is the Prometheus registry to use (nil = new registry
	// with standard Go and process collectors)
	Registry *prometheus.Registry
}

// NewPrometheusCollector creates a new Prometheus metrics collector.
func NewPrometheusCollector(cfg *PrometheusConfig) *PrometheusCollector {
	if cfg == nil {
		cfg = &PrometheusConfig{}
	}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector())
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	return &PrometheusCollector{
		registry:   registry,
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
		namespace:  cfg.Namespace,
	}
}

// labelNames extracts the label names from alternating key/value pairs.
func labelNames(labels []string) []string {
	names := make([]string, 0, len(labels)/2)
	for i := 0; i+1 < len(labels); i += 2 {
		names = append(names, labels[i])
	}
	return names
}

// labelValues extracts the label values from alternating key/value pairs.
func labelValues(labels []string) []string {
	values := make([]string, 0, len(labels)/2)
	for i := 0; i+1 < len(labels); i += 2 {
		values = append(values, labels[i+1])
	}
	return values
}

func (c *PrometheusCollector) counter(name string, labels []string) *prometheus.CounterVec {
	c.mu.Lock()
	defer c.mu.Unlock()

	if vec, ok := c.counters[name]; ok {
		return vec
	}
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.namespace,
		Name:      name,
	}, labelNames(labels))
	c.registry.MustRegister(vec)
	c.counters[name] = vec
	return vec
}

func (c *PrometheusCollector) gauge(name string, labels []string) *prometheus.GaugeVec {
	c.mu.Lock()
	defer c.mu.Unlock()

	if vec, ok := c.gauges[name]; ok {
		return vec
	}
	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: c.namespace,
		Name:      name,
	}, labelNames(labels))
	c.registry.MustRegister(vec)
	c.gauges[name] = vec
	return vec
}

func (c *PrometheusCollector) histogram(name string, labels []string) *prometheus.HistogramVec {
	c.mu.Lock()
	defer c.mu.Unlock()

	if vec, ok := c.histograms[name]; ok {
		return vec
	}
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: c.namespace,
		Name:      name,
		Buckets:   prometheus.DefBuckets,
	}, labelNames(labels))
	c.registry.MustRegister(vec)
	c.histograms[name] = vec
	return vec
}

// CounterInc increments a counter by 1.
func (c *PrometheusCollector) CounterInc(name string, labels ...string) {
	c.counter(name, labels).WithLabelValues(labelValues(labels)...).Inc()
}

// CounterAdd adds a value to a counter.
func (c *PrometheusCollector) CounterAdd(name string, value float64, labels ...string) {
	c.counter(name, labels).WithLabelValues(labelValues(labels)...).Add(value)
}

// GaugeSet sets a gauge to a value.
func (c *PrometheusCollector) GaugeSet(name string, value float64, labels ...string) {
	c.gauge(name, labels).WithLabelValues(labelValues(labels)...).Set(value)
}

// HistogramObserve records an observation in a histogram.
func (c *PrometheusCollector) HistogramObserve(name string, value float64, labels ...string) {
	c.histogram(name, labels).WithLabelValues(labelValues(labels)...).Observe(value)
}

// Handler returns the Prometheus metrics HTTP handler.
func (c *PrometheusCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Ensure PrometheusCollector implements Collector
var _ Collector = (*PrometheusCollector)(nil)
