package postgresjournal

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/AntonStoeckl/lending-ledger-go/journal"
)

const (
	logMsgBuildSelectQueryFailed = "failed to build select query"
	logMsgBuildInsertQueryFailed = "failed to build insert query"
	logMsgDBQueryFailed          = "database query execution failed"
	logMsgDBExecFailed           = "database execution failed during event append"
	logMsgScanRowFailed          = "failed to scan database row"
	logMsgBuildStoredEventFailed = "failed to build stored event from database row"
	logMsgRowsAffectedFailed     = "failed to get rows affected count"
	logMsgCloseRowsFailed        = "failed to close database rows"
	logMsgCreateSchemaFailed     = "failed to create journal schema"
	logMsgSnapshotFailed         = "snapshot operation failed"
	logMsgQueryCompleted         = "query completed"
	logMsgEventsAppended         = "events appended"
	logMsgConcurrencyConflict    = "concurrency conflict detected"
	logMsgSchemaCreated          = "schema created"
	logMsgSnapshotSaved          = "snapshot saved"
	logMsgSnapshotLoaded         = "snapshot loaded"
	logMsgSnapshotDeleted        = "snapshot deleted"
	logMsgSQLExecuted            = "executed sql for: "
	logMsgOperation              = "journal operation: "

	logAttrError            = "error"
	logAttrQuery            = "query"
	logAttrSQLState         = "sqlstate"
	logAttrEventType        = "event_type"
	logAttrEventCount       = "event_count"
	logAttrDurationMS       = "duration_ms"
	logAttrExpectedEvents   = "expected_events"
	logAttrRowsAffected     = "rows_affected"
	logAttrExpectedSequence = "expected_sequence"
	logAttrSnapshotName     = "snapshot_name"
	logAttrSequenceNumber   = "sequence_number"
	logAttrEventTable       = "event_table"
	logAttrSnapshotTable    = "snapshot_table"
)

// Metric names and labels recorded by the journal.
const (
	MetricQueryDuration        = "journal_query_duration_seconds"
	MetricAppendDuration       = "journal_append_duration_seconds"
	MetricEventsQueried        = "journal_events_queried"
	MetricEventsAppended       = "journal_events_appended_total"
	MetricConcurrencyConflicts = "journal_concurrency_conflicts_total"
	MetricDatabaseErrors       = "journal_database_errors_total"

	LabelOperation = "operation"
	LabelStatus    = "status"
	LabelErrorType = "error_type"

	operationQuery    = "query"
	operationAppend   = "append"
	operationSnapshot = "snapshot"
	statusSuccess     = "success"
	statusError       = "error"
)

func (j *Journal) logSQL(ctx context.Context, sqlQuery string, action string, duration time.Duration) {
	j.log(ctx, levelDebug, logMsgSQLExecuted+action, logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery)
}

func (j *Journal) logOperation(ctx context.Context, action string, args ...any) {
	j.log(ctx, levelInfo, logMsgOperation+action, args...)
}

func (j *Journal) logWarn(ctx context.Context, message string, err error, args ...any) {
	j.log(ctx, levelWarn, message, append([]any{logAttrError, err.Error()}, args...)...)
}

func (j *Journal) logError(ctx context.Context, message string, err error, args ...any) {
	j.log(ctx, levelError, message, append([]any{logAttrError, err.Error()}, args...)...)
}

type logLevel int

const (
	levelDebug logLevel = iota
	levelInfo
	levelWarn
	levelError
)

// log prefers the contextual logger so trace correlation survives, and falls back to the plain one.
func (j *Journal) log(ctx context.Context, level logLevel, msg string, args ...any) {
	if l := j.contextualLogger; l != nil {
		switch level {
		case levelDebug:
			l.DebugContext(ctx, msg, args...)
		case levelInfo:
			l.InfoContext(ctx, msg, args...)
		case levelWarn:
			l.WarnContext(ctx, msg, args...)
		default:
			l.ErrorContext(ctx, msg, args...)
		}

		return
	}

	if l := j.logger; l != nil {
		switch level {
		case levelDebug:
			l.Debug(msg, args...)
		case levelInfo:
			l.Info(msg, args...)
		case levelWarn:
			l.Warn(msg, args...)
		default:
			l.Error(msg, args...)
		}
	}
}

func (j *Journal) recordQuerySuccess(eventCount int, duration time.Duration) {
	if j.metricsCollector == nil {
		return
	}

	labels := map[string]string{LabelOperation: operationQuery, LabelStatus: statusSuccess}
	j.metricsCollector.RecordDuration(MetricQueryDuration, duration, labels)
	j.metricsCollector.RecordValue(MetricEventsQueried, float64(eventCount), labels)
}

func (j *Journal) recordAppendSuccess(eventCount int, duration time.Duration) {
	if j.metricsCollector == nil {
		return
	}

	labels := map[string]string{LabelOperation: operationAppend, LabelStatus: statusSuccess}
	j.metricsCollector.RecordDuration(MetricAppendDuration, duration, labels)

	for range eventCount {
		j.metricsCollector.IncrementCounter(MetricEventsAppended, map[string]string{LabelOperation: operationAppend})
	}
}

func (j *Journal) recordFailure(operation string, err error, duration time.Duration) {
	if j.metricsCollector == nil {
		return
	}

	switch operation {
	case operationQuery:
		j.metricsCollector.RecordDuration(MetricQueryDuration, duration, map[string]string{LabelOperation: operation, LabelStatus: statusError})
	case operationAppend:
		j.metricsCollector.RecordDuration(MetricAppendDuration, duration, map[string]string{LabelOperation: operation, LabelStatus: statusError})
	}

	j.metricsCollector.IncrementCounter(MetricDatabaseErrors, map[string]string{
		LabelOperation: operation,
		LabelStatus:    statusError,
		LabelErrorType: errorType(err),
	})
}

func (j *Journal) recordConcurrencyConflict() {
	if j.metricsCollector != nil {
		j.metricsCollector.IncrementCounter(MetricConcurrencyConflicts, map[string]string{LabelOperation: operationAppend})
	}
}

// errorType classifies an error for metric labels.
func errorType(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "context_canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "context_deadline_exceeded"
	case errors.Is(err, journal.ErrScanningDBRowFailed), errors.Is(err, journal.ErrBuildingStoredEventFailed):
		return "row_mapping"
	case sqlState(err) != "":
		return "sqlstate_" + sqlState(err)
	default:
		return "other"
	}
}

// sqlState extracts the Postgres SQLSTATE code from pgx and lib/pq errors.
func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}

	return ""
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
