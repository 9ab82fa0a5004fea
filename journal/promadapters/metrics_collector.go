package promadapters

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ErrNilRegisterer is returned when no Registerer is given.
var ErrNilRegisterer = errors.New("prometheus registerer must not be nil")

// MetricsCollector implements journal.MetricsCollector (and the identical interfaces of the
// ledger and shell packages) using Prometheus vectors:
//   - RecordDuration -> HistogramVec, observed in seconds
//   - IncrementCounter -> CounterVec
//   - RecordValue -> GaugeVec
type MetricsCollector struct {
	mu              sync.Mutex
	registerer      prometheus.Registerer
	namespace       string
	durationBuckets []float64
	histograms      map[string]*instrument[*prometheus.HistogramVec]
	counters        map[string]*instrument[*prometheus.CounterVec]
	gauges          map[string]*instrument[*prometheus.GaugeVec]
}

type instrument[V any] struct {
	vec        V
	labelNames []string
}

// Option configures a MetricsCollector.
type Option func(*MetricsCollector) error

// WithNamespace prefixes every metric name, e.g. "lendingdesk" turns
// ledger_operations_total into lendingdesk_ledger_operations_total.
func WithNamespace(namespace string) Option {
	return func(m *MetricsCollector) error {
		m.namespace = namespace
		return nil
	}
}

// WithDurationBuckets replaces the default histogram buckets (prometheus.DefBuckets).
func WithDurationBuckets(buckets ...float64) Option {
	return func(m *MetricsCollector) error {
		m.durationBuckets = buckets
		return nil
	}
}

// NewMetricsCollector creates a collector that registers its instruments with registerer.
func NewMetricsCollector(registerer prometheus.Registerer, options ...Option) (*MetricsCollector, error) {
	if registerer == nil {
		return nil, ErrNilRegisterer
	}

	m := &MetricsCollector{
		registerer:      registerer,
		durationBuckets: prometheus.DefBuckets,
		histograms:      make(map[string]*instrument[*prometheus.HistogramVec]),
		counters:        make(map[string]*instrument[*prometheus.CounterVec]),
		gauges:          make(map[string]*instrument[*prometheus.GaugeVec]),
	}

	for _, option := range options {
		if err := option(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// RecordDuration observes the duration in seconds.
func (m *MetricsCollector) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	histogram := getOrCreate(m, m.histograms, metric, labels, func(labelNames []string) *prometheus.HistogramVec {
		return prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: m.namespace,
			Name:      metric,
			Help:      "Duration of " + metric + " in seconds.",
			Buckets:   m.durationBuckets,
		}, labelNames)
	})
	if histogram == nil {
		return
	}

	histogram.With(labels).Observe(duration.Seconds())
}

// IncrementCounter adds one to the counter.
func (m *MetricsCollector) IncrementCounter(metric string, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	counter := getOrCreate(m, m.counters, metric, labels, func(labelNames []string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: m.namespace,
			Name:      metric,
			Help:      "Count of " + metric + ".",
		}, labelNames)
	})
	if counter == nil {
		return
	}

	counter.With(labels).Inc()
}

// RecordValue sets the gauge to value.
func (m *MetricsCollector) RecordValue(metric string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	gauge := getOrCreate(m, m.gauges, metric, labels, func(labelNames []string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: m.namespace,
			Name:      metric,
			Help:      "Last recorded value of " + metric + ".",
		}, labelNames)
	})
	if gauge == nil {
		return
	}

	gauge.With(labels).Set(value)
}

// getOrCreate returns the vector for metric, creating and registering it on first use.
// It returns the zero value if the labels don't fit the vector or registration fails.
// The caller must hold m.mu.
func getOrCreate[V prometheus.Collector](
	m *MetricsCollector,
	instruments map[string]*instrument[V],
	metric string,
	labels map[string]string,
	build func(labelNames []string) V,
) V {

	var zero V
	labelNames := sortedLabelNames(labels)

	if existing, found := instruments[metric]; found {
		if !slices.Equal(existing.labelNames, labelNames) {
			return zero
		}

		return existing.vec
	}

	vec := build(labelNames)

	if err := m.registerer.Register(vec); err != nil {
		var alreadyRegistered prometheus.AlreadyRegisteredError
		if !errors.As(err, &alreadyRegistered) {
			return zero
		}

		registered, ok := alreadyRegistered.ExistingCollector.(V)
		if !ok {
			return zero
		}

		vec = registered
	}

	instruments[metric] = &instrument[V]{vec: vec, labelNames: labelNames}

	return vec
}

func sortedLabelNames(labels map[string]string) []string {
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}
