package helper

import (
	"maps"
	"sync"
	"time"
)

// MetricsCollectorSpy records every call it receives, for assertions in tests.
// It satisfies the MetricsCollector interfaces of the ledger and journal packages.
type MetricsCollectorSpy struct {
	mu        sync.Mutex
	durations []MetricRecord
	counters  []MetricRecord
	values    []MetricRecord
}

// MetricRecord is one captured metrics call.
type MetricRecord struct {
	Metric   string
	Duration time.Duration
	Value    float64
	Labels   map[string]string
}

// NewMetricsCollectorSpy creates an empty MetricsCollectorSpy.
func NewMetricsCollectorSpy() *MetricsCollectorSpy {
	return &MetricsCollectorSpy{}
}

// RecordDuration captures a duration measurement.
func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.durations = append(s.durations, MetricRecord{Metric: metric, Duration: duration, Labels: maps.Clone(labels)})
}

// IncrementCounter captures a counter increment.
func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters = append(s.counters, MetricRecord{Metric: metric, Value: 1, Labels: maps.Clone(labels)})
}

// RecordValue captures a value measurement.
func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = append(s.values, MetricRecord{Metric: metric, Value: value, Labels: maps.Clone(labels)})
}

// CounterCount returns how often the counter was incremented with labels containing the given ones.
func (s *MetricsCollectorSpy) CounterCount(metric string, labels map[string]string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return countMatching(s.counters, metric, labels)
}

// DurationCount returns how many durations were recorded with labels containing the given ones.
func (s *MetricsCollectorSpy) DurationCount(metric string, labels map[string]string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return countMatching(s.durations, metric, labels)
}

// Values returns all values recorded for the metric, in call order.
func (s *MetricsCollectorSpy) Values(metric string) []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := make([]float64, 0)
	for _, record := range s.values {
		if record.Metric == metric {
			values = append(values, record.Value)
		}
	}

	return values
}

// Reset clears all captured calls.
func (s *MetricsCollectorSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.durations = nil
	s.counters = nil
	s.values = nil
}

func countMatching(records []MetricRecord, metric string, labels map[string]string) int {
	count := 0

	for _, record := range records {
		if record.Metric != metric {
			continue
		}

		if containsLabels(record.Labels, labels) {
			count++
		}
	}

	return count
}

func containsLabels(actual, expected map[string]string) bool {
	for key, value := range expected {
		if actual[key] != value {
			return false
		}
	}

	return true
}
