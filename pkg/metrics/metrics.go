// Package metrics provides Prometheus-compatible metrics collection for
// the analysis pipeline and its providers.
package metrics

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
)

// =============================================================================
// Collector Interface
// =============================================================================

// Collector is the interface for metrics collection. Components record
// through it; the backend is Prometheus in production and in-memory in
// tests.
type Collector interface {
	// CounterInc increments a counter by 1.
	CounterInc(name string, labels ...string)

	// CounterAdd adds a value to a counter.
	CounterAdd(name string, value float64, labels ...string)

	// GaugeSet sets a gauge to a value.
	GaugeSet(name string, value float64, labels ...string)

	// HistogramObserve records an observation in a histogram.
	HistogramObserve(name string, value float64, labels ...string)

	// Handler returns an HTTP handler exposing the metrics.
	Handler() http.Handler
}

// Well-known metric names recorded by the SDK.
const (
	MetricAnalyses         = "analyses_total"
	MetricFindings         = "findings_total"
	MetricAnalysisSeconds  = "analysis_duration_seconds"
	MetricProviderRequests = "provider_requests_total"
	MetricProviderSeconds  = "provider_request_seconds"
	MetricCacheHits        = "cache_hits_total"
	MetricCacheMisses      = "cache_misses_total"
)

// =============================================================================
// In-Memory Collector (for tests and inspection)
// =============================================================================

// InMemoryCollector stores metrics in memory.
type InMemoryCollector struct {
	mu         sync.RWMutex
	counters   map[string]float64
	gauges     map[string]float64
	histograms map[string][]float64
}

// NewInMemoryCollector creates a new in-memory collector.
func NewInMemoryCollector() *InMemoryCollector {
	return &InMemoryCollector{
		counters:   make(map[string]float64),
		gauges:     make(map[string]float64),
		histograms: make(map[string][]float64),
	}
}

// metricKey builds a stable key from a name and label pairs.
func metricKey(name string, labels []string) string {
	if len(labels) == 0 {
		return name
	}
	pairs := make([]string, 0, len(labels)/2)
	for i := 0; i+1 < len(labels); i += 2 {
		pairs = append(pairs, labels[i]+"="+labels[i+1])
	}
	sort.Strings(pairs)
	return name + "{" + strings.Join(pairs, ",") + "}"
}

// CounterInc increments a counter by 1.
func (c *InMemoryCollector) CounterInc(name string, labels ...string) {
	c.CounterAdd(name, 1, labels...)
}

// CounterAdd adds a value to a counter.
func (c *InMemoryCollector) CounterAdd(name string, value float64, labels ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[metricKey(name, labels)] += value
}

// GaugeSet sets a gauge to a value.
func (c *InMemoryCollector) GaugeSet(name string, value float64, labels ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gauges[metricKey(name, labels)] = value
}

// HistogramObserve records an observation in a histogram.
func (c *InMemoryCollector) HistogramObserve(name string, value float64, labels ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := metricKey(name, labels)
	c.histograms[key] = append(c.histograms[key], value)
}

// GetCounter returns the current value of a counter.
func (c *InMemoryCollector) GetCounter(name string, labels ...string) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.counters[metricKey(name, labels)]
}

// GetGauge returns the current value of a gauge.
func (c *InMemoryCollector) GetGauge(name string, labels ...string) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gauges[metricKey(name, labels)]
}

// GetHistogram returns the recorded observations of a histogram.
func (c *InMemoryCollector) GetHistogram(name string, labels ...string) []float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	obs := c.histograms[metricKey(name, labels)]
	out := make([]float64, len(obs))
	copy(out, obs)
	return out
}

// Reset clears all recorded metrics.
func (c *InMemoryCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters = make(map[string]float64)
	c.gauges = make(map[string]float64)
	c.histograms = make(map[string][]float64)
}

// Handler returns a plain-text dump of the recorded metrics.
func (c *InMemoryCollector) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.mu.RLock()
		defer c.mu.RUnlock()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		for k, v := range c.counters {
			fmt.Fprintf(w, "%s %v\n", k, v)
		}
		for k, v := range c.gauges {
			fmt.Fprintf(w, "%s %v\n", k, v)
		}
	})
}

// =============================================================================
// Nop Collector
// =============================================================================

// NopCollector discards all metrics.
type NopCollector struct{}

func (c *NopCollector) CounterInc(name string, labels ...string)                  {}
func (c *NopCollector) CounterAdd(name string, value float64, labels ...string)   {}
func (c *NopCollector) GaugeSet(name string, value float64, labels ...string)     {}
func (c *NopCollector) HistogramObserve(name string, value float64, labels ...string) {
}

// Handler returns a 404 handler.
func (c *NopCollector) Handler() http.Handler {
	return http.NotFoundHandler()
}

// =============================================================================
// Timer
// =============================================================================

// Timer measures a duration and records it as a histogram observation.
type Timer struct {
	collector Collector
	name      string
	labels    []string
	start     time.Time
}

// NewTimer starts a timer for the given histogram metric.
func NewTimer(collector Collector, name string, labels ...string) *Timer {
	return &Timer{
		collector: collector,
		name:      name,
		labels:    labels,
		start:     time.Now(),
	}
}

// ObserveDuration records the elapsed time in seconds.
func (t *Timer) ObserveDuration() time.Duration {
	elapsed := time.Since(t.start)
	t.collector.HistogramObserve(t.name, elapsed.Seconds(), t.labels...)
	return elapsed
}

// Ensure implementations satisfy the interface
var (
	_ Collector = (*InMemoryCollector)(nil)
	_ Collector = (*NopCollector)(nil)
)
