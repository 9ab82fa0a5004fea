package shell

import (
	"context"
	"time"

	"github.com/AntonStoeckl/lending-ledger-go/journal"
)

// Journal is what the Desk needs from a journal implementation.
// Both postgresjournal.Journal and memjournal.Journal satisfy it.
type Journal interface {
	Query(ctx context.Context, filter journal.Filter) (journal.StoredEvents, journal.SequenceNumber, error)
	Append(
		ctx context.Context,
		filter journal.Filter,
		expectedMaxSequenceNumber journal.SequenceNumber,
		event journal.StoredEvent,
		additionalEvents ...journal.StoredEvent,
	) error
	SaveSnapshot(ctx context.Context, record journal.SnapshotRecord) error
	LoadSnapshot(ctx context.Context, name string) (journal.SnapshotRecord, error)
}

// Logger interface for operational logging. *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// MetricsCollector interface for collecting desk metrics.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}
