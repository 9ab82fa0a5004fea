// Package promadapters implements the journal.MetricsCollector interface on the Prometheus client.
//
// Durations become histograms in seconds, counters become counters and recorded values become
// gauges. Instruments are created and registered lazily, the first time a metric name is seen,
// with the label names of that first call. Later calls with a different label set are dropped,
// since a Prometheus vector has fixed label names.
//
// The same collector serves the ledger engine, the Postgres journal and the desk:
//
//	registry := prometheus.NewRegistry()
//	collector := promadapters.NewMetricsCollector(registry)
//	engine, _ := ledger.NewEngine(ledger.WithMetrics(collector))
package promadapters
