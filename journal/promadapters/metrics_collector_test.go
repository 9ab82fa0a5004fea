package promadapters_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-ledger-go/journal"
	"github.com/AntonStoeckl/lending-ledger-go/journal/promadapters"
	"github.com/AntonStoeckl/lending-ledger-go/ledger"
)

var _ journal.MetricsCollector = (*promadapters.MetricsCollector)(nil)

func Test_NewMetricsCollector_RequiresRegisterer(t *testing.T) {
	_, err := promadapters.NewMetricsCollector(nil)

	assert.ErrorIs(t, err, promadapters.ErrNilRegisterer)
}

func Test_MetricsCollector_IncrementCounter(t *testing.T) {
	// arrange
	registry, collector := givenCollector(t)
	labels := map[string]string{"operation": "issue", "status": "success"}

	// act
	collector.IncrementCounter("ledger_operations_total", labels)
	collector.IncrementCounter("ledger_operations_total", labels)
	collector.IncrementCounter("ledger_operations_total", map[string]string{"status": "rejected", "operation": "issue"})

	// assert
	count, err := testutil.GatherAndCount(registry, "ledger_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 3.0, sumOfCounter(t, registry, "ledger_operations_total"))
}

func Test_MetricsCollector_RecordDuration(t *testing.T) {
	// arrange
	registry, collector := givenCollector(t)

	// act
	collector.RecordDuration("journal_query_duration_seconds", 250*time.Millisecond, map[string]string{"operation": "query"})

	// assert
	family := givenFamily(t, registry, "journal_query_duration_seconds")
	require.Len(t, family.GetMetric(), 1)
	histogram := family.GetMetric()[0].GetHistogram()
	assert.Equal(t, uint64(1), histogram.GetSampleCount())
	assert.InDelta(t, 0.25, histogram.GetSampleSum(), 1e-9)
}

func Test_MetricsCollector_RecordValue(t *testing.T) {
	// arrange
	registry, collector := givenCollector(t)

	// act
	collector.RecordValue("ledger_late_fee_assessed", 10, map[string]string{"operation": "return"})
	collector.RecordValue("ledger_late_fee_assessed", 2.5, map[string]string{"operation": "return"})

	// assert
	family := givenFamily(t, registry, "ledger_late_fee_assessed")
	require.Len(t, family.GetMetric(), 1)
	assert.Equal(t, 2.5, family.GetMetric()[0].GetGauge().GetValue())
}

func Test_MetricsCollector_DropsCallsWithDifferentLabelNames(t *testing.T) {
	// arrange
	registry, collector := givenCollector(t)
	collector.IncrementCounter("desk_retries_total", map[string]string{"operation": "issue"})

	// act
	assert.NotPanics(t, func() {
		collector.IncrementCounter("desk_retries_total", map[string]string{"operation": "issue", "error_type": "other"})
	})

	// assert
	assert.Equal(t, 1.0, sumOfCounter(t, registry, "desk_retries_total"))
}

func Test_MetricsCollector_WithNamespace(t *testing.T) {
	// arrange
	registry := prometheus.NewRegistry()
	collector, err := promadapters.NewMetricsCollector(registry, promadapters.WithNamespace("lendingdesk"))
	require.NoError(t, err)

	// act
	collector.IncrementCounter("desk_operations_total", nil)

	// assert
	count, err := testutil.GatherAndCount(registry, "lendingdesk_desk_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func Test_MetricsCollector_ReusesCollectorsAlreadyRegistered(t *testing.T) {
	// arrange
	registry := prometheus.NewRegistry()
	first, err := promadapters.NewMetricsCollector(registry)
	require.NoError(t, err)
	second, err := promadapters.NewMetricsCollector(registry)
	require.NoError(t, err)

	// act
	first.IncrementCounter("journal_events_appended_total", map[string]string{"operation": "append"})
	second.IncrementCounter("journal_events_appended_total", map[string]string{"operation": "append"})

	// assert
	assert.Equal(t, 2.0, sumOfCounter(t, registry, "journal_events_appended_total"))
}

func Test_MetricsCollector_ServesTheLedgerEngine(t *testing.T) {
	// arrange
	registry, collector := givenCollector(t)
	engine, err := ledger.NewEngine(ledger.WithMetrics(collector), ledger.WithLateFeePolicy(ledger.NoLateFeePolicy()))
	require.NoError(t, err)

	// act
	require.NoError(t, engine.AddItem("1984", "George Orwell", "B1"))
	_, issueErr := engine.Issue("B1", "P404")

	// assert
	assert.ErrorIs(t, issueErr, ledger.ErrMemberNotFound)
	assert.Equal(t, 2.0, sumOfCounter(t, registry, "ledger_operations_total"))
	assert.Equal(t, 1.0, sumOfCounter(t, registry, "ledger_operation_rejections_total"))
}

func givenCollector(t *testing.T) (*prometheus.Registry, *promadapters.MetricsCollector) {
	t.Helper()

	registry := prometheus.NewRegistry()
	collector, err := promadapters.NewMetricsCollector(registry, promadapters.WithDurationBuckets(0.01, 0.1, 1))
	require.NoError(t, err)

	return registry, collector
}

func givenFamily(t *testing.T, registry *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()

	families, err := registry.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() == name {
			return family
		}
	}

	t.Fatalf("metric family %s not gathered", name)

	return nil
}

func sumOfCounter(t *testing.T, registry *prometheus.Registry, name string) float64 {
	t.Helper()

	sum := 0.0
	for _, metric := range givenFamily(t, registry, name).GetMetric() {
		sum += metric.GetCounter().GetValue()
	}

	return sum
}
