package postgresjournal

import (
	"github.com/AntonStoeckl/lending-ledger-go/journal"
)

// Option defines a functional option for configuring Journal.
type Option func(*Journal) error

// WithEventTableName sets the table the events are stored in.
func WithEventTableName(tableName string) Option {
	return func(j *Journal) error {
		if tableName == "" {
			return journal.ErrEmptyTableName
		}

		j.eventTableName = tableName

		return nil
	}
}

// WithSnapshotTableName sets the table the snapshots are stored in.
func WithSnapshotTableName(tableName string) Option {
	return func(j *Journal) error {
		if tableName == "" {
			return journal.ErrEmptyTableName
		}

		j.snapshotTableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the Journal.
//
// Debug level: SQL statements with execution timing
// Info level: event counts, durations, concurrency conflicts
// Warn level: non-critical issues like cleanup failures
// Error level: failures that abort an operation
func WithLogger(logger journal.Logger) Option {
	return func(j *Journal) error {
		j.logger = logger
		return nil
	}
}

// WithContextualLogger sets a context-aware logger. It takes precedence over WithLogger.
func WithContextualLogger(logger journal.ContextualLogger) Option {
	return func(j *Journal) error {
		j.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Journal.
func WithMetrics(collector journal.MetricsCollector) Option {
	return func(j *Journal) error {
		j.metricsCollector = collector
		return nil
	}
}
