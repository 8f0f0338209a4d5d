package observability

import (
	"maps"
	"slices"
	"strings"
	"sync"
	"time"
)

// MetricType represents the type of metric
type MetricType int

const (
	// Counter metrics only increase
	Counter MetricType = iota
	// Gauge metrics can go up or down
	Gauge
	// Histogram metrics track distributions
	Histogram
)

// Metric represents a single metric measurement
type Metric struct {
	Name      string            `json:"name"`
	Type      MetricType        `json:"type"`
	Value     float64           `json:"value"`
	Labels    map[string]string `json:"labels"`
	Timestamp time.Time         `json:"timestamp"`
}

// MetricsCollector interface defines the contract for metrics collection
type MetricsCollector interface {
	IncrementCounter(name string, labels map[string]string)
	IncrementCounterBy(name string, value float64, labels map[string]string)

	SetGauge(name string, value float64, labels map[string]string)
	AddGauge(name string, delta float64, labels map[string]string)

	RecordHistogram(name string, value float64, labels map[string]string)

	GetMetrics() []Metric
	GetMetric(name string, labels map[string]string) (*Metric, bool)
}

// InMemoryMetricsCollector is a simple in-memory metrics collector
type InMemoryMetricsCollector struct {
	mu      sync.RWMutex
	metrics map[string]*Metric
}

// NewInMemoryMetricsCollector creates a new in-memory metrics collector
func NewInMemoryMetricsCollector() *InMemoryMetricsCollector {
	return &InMemoryMetricsCollector{
		metrics: make(map[string]*Metric),
	}
}

// IncrementCounter increments a counter metric by 1
func (c *InMemoryMetricsCollector) IncrementCounter(name string, labels map[string]string) {
	c.IncrementCounterBy(name, 1.0, labels)
}

// IncrementCounterBy increments a counter metric by the specified value
func (c *InMemoryMetricsCollector) IncrementCounterBy(name string, value float64, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.upsert(name, Counter, labels).Value += value
}

// SetGauge sets a gauge metric to the specified value
func (c *InMemoryMetricsCollector) SetGauge(name string, value float64, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.upsert(name, Gauge, labels).Value = value
}

// AddGauge moves a gauge metric by delta
func (c *InMemoryMetricsCollector) AddGauge(name string, delta float64, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.upsert(name, Gauge, labels).Value += delta
}

// RecordHistogram records the latest observation of a histogram metric
func (c *InMemoryMetricsCollector) RecordHistogram(name string, value float64, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.upsert(name, Histogram, labels).Value = value
}

// GetMetrics returns all metrics
func (c *InMemoryMetricsCollector) GetMetrics() []Metric {
	c.mu.RLock()
	defer c.mu.RUnlock()

	metrics := make([]Metric, 0, len(c.metrics))
	for _, metric := range c.metrics {
		m := *metric
		m.Labels = copyLabels(metric.Labels)
		metrics = append(metrics, m)
	}
	return metrics
}

// GetMetric returns a copy of a specific metric
func (c *InMemoryMetricsCollector) GetMetric(name string, labels map[string]string) (*Metric, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	metric, exists := c.metrics[metricKey(name, labels)]
	if !exists {
		return nil, false
	}

	m := *metric
	m.Labels = copyLabels(metric.Labels)
	return &m, true
}

// Value returns the metric value, or 0 if it was never recorded.
func (c *InMemoryMetricsCollector) Value(name string, labels map[string]string) float64 {
	if m, ok := c.GetMetric(name, labels); ok {
		return m.Value
	}
	return 0
}

// upsert must be called with c.mu held.
func (c *InMemoryMetricsCollector) upsert(name string, typ MetricType, labels map[string]string) *Metric {
	key := metricKey(name, labels)
	metric, exists := c.metrics[key]
	if !exists {
		metric = &Metric{
			Name:   name,
			Type:   typ,
			Labels: copyLabels(labels),
		}
		c.metrics[key] = metric
	}
	metric.Timestamp = time.Now()
	return metric
}

// metricKey builds a key that does not depend on map iteration order.
func metricKey(name string, labels map[string]string) string {
	var b strings.Builder
	b.WriteString(name)
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		b.WriteString(":")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(labels[k])
	}
	return b.String()
}

func copyLabels(labels map[string]string) map[string]string {
	if labels == nil {
		return nil
	}
	return maps.Clone(labels)
}

// Metric names recorded by RunMetrics.
const (
	MetricPhaseTransitions = "waitthread_phase_transitions_total"
	MetricGateOpens        = "waitthread_gate_open_total"
	MetricWorkersLive      = "waitthread_workers_live"
	MetricWorkerFailures   = "waitthread_worker_failures_total"
	MetricRunDuration      = "waitthread_run_duration_ms"
	MetricMarkersEmitted   = "waitthread_markers_total"
	MetricSinkErrors       = "waitthread_sink_errors_total"
)

// RunMetrics records the metrics of one fixture run.
type RunMetrics struct {
	collector MetricsCollector
}

// NewRunMetrics wraps collector; nil gets a fresh in-memory collector.
func NewRunMetrics(collector MetricsCollector) *RunMetrics {
	if collector == nil {
		collector = NewInMemoryMetricsCollector()
	}
	return &RunMetrics{collector: collector}
}

// Collector returns the underlying collector.
func (m *RunMetrics) Collector() MetricsCollector {
	return m.collector
}

// RecordPhase counts a worker entering phase.
func (m *RunMetrics) RecordPhase(phase string) {
	m.collector.IncrementCounter(MetricPhaseTransitions, map[string]string{"phase": phase})
}

// RecordGateOpen counts a gate being opened.
func (m *RunMetrics) RecordGateOpen(gate string) {
	m.collector.IncrementCounter(MetricGateOpens, map[string]string{"gate": gate})
}

// WorkerStarted and WorkerStopped keep the live worker gauge.
func (m *RunMetrics) WorkerStarted() {
	m.collector.AddGauge(MetricWorkersLive, 1, nil)
}

func (m *RunMetrics) WorkerStopped() {
	m.collector.AddGauge(MetricWorkersLive, -1, nil)
}

// RecordWorkerFailure counts a worker that ended with an error.
func (m *RunMetrics) RecordWorkerFailure(kind string) {
	m.collector.IncrementCounter(MetricWorkerFailures, map[string]string{"kind": kind})
}

// RecordRunDuration records how long a run took, in milliseconds.
func (m *RunMetrics) RecordRunDuration(d time.Duration) {
	m.collector.RecordHistogram(MetricRunDuration, float64(d.Nanoseconds())/1e6, nil)
}

// RecordMarker counts an emitted marker of kind.
func (m *RunMetrics) RecordMarker(kind string) {
	m.collector.IncrementCounter(MetricMarkersEmitted, map[string]string{"kind": kind})
}

// RecordSinkError counts a sink that failed to take a marker.
func (m *RunMetrics) RecordSinkError(sink string) {
	m.collector.IncrementCounter(MetricSinkErrors, map[string]string{"sink": sink})
}
