package shell

import (
	"time"
)

const (
	// MetricOperationDuration tracks how long a desk operation took, retries included.
	MetricOperationDuration = "desk_operation_duration_seconds"
	// MetricOperations counts desk operations by outcome.
	MetricOperations = "desk_operations_total"
	// MetricRetries counts retries after concurrency conflicts.
	MetricRetries = "desk_retries_total"
	// MetricRetryDelay tracks the backoff delay before a retry.
	MetricRetryDelay = "desk_retry_delay_seconds"
	// MetricMaxRetriesReached counts operations that gave up after the last attempt.
	MetricMaxRetriesReached = "desk_max_retries_reached_total"

	// LabelOperation identifies the desk operation.
	LabelOperation = "operation"
	// LabelStatus is one of StatusSuccess, StatusRejected, StatusError.
	LabelStatus = "status"
	// LabelAttemptNumber is the attempt a retry metric belongs to.
	LabelAttemptNumber = "attempt_number"
	// LabelErrorType classifies the error that caused a retry.
	LabelErrorType = "error_type"

	// StatusSuccess indicates the ledger accepted the operation and the event was journaled.
	StatusSuccess = "success"
	// StatusRejected indicates the ledger refused the operation.
	StatusRejected = "rejected"
	// StatusError indicates an infrastructure failure.
	StatusError = "error"

	// Operation names used in logs and metric labels.
	OperationAddItem        = "add_item"
	OperationRemoveItem     = "remove_item"
	OperationRegisterMember = "register_member"
	OperationIssue          = "issue"
	OperationReturn         = "return"
	OperationPayFees        = "pay_fees"
)

const (
	logMsgDeskOpened         = "desk opened"
	logMsgOperationCompleted = "desk operation completed"
	logMsgOperationRejected  = "desk operation rejected"
	logMsgOperationFailed    = "desk operation failed"
	logMsgRollbackFailed     = "desk rollback failed, ledger will be reloaded"
	logMsgAppendedNotFound   = "appended event not found, ledger will be reloaded"
	logMsgCaughtUp           = "desk caught up with the journal"
	logMsgCheckpointSaved    = "ledger checkpoint saved"
	logMsgCheckpointFailed   = "saving ledger checkpoint failed"

	logAttrOperation  = "operation"
	logAttrDurationMS = "duration_ms"
	logAttrAttempts   = "attempts"
	logAttrPosition   = "position"
	logAttrFrom       = "from"
	logAttrError      = "error"
)

func (d *Desk) logInfo(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Info(msg, args...)
	}
}

func (d *Desk) logDebug(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Debug(msg, args...)
	}
}

func (d *Desk) logWarn(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Warn(msg, args...)
	}
}

func (d *Desk) logError(msg string, err error, args ...any) {
	if d.logger != nil {
		d.logger.Error(msg, append([]any{logAttrError, err.Error()}, args...)...)
	}
}

// recordOperation logs and measures the outcome of one desk operation.
func (d *Desk) recordOperation(operation, status string, duration time.Duration, metrics RetryMetrics, err error) {
	args := []any{
		logAttrOperation, operation,
		logAttrDurationMS, toMilliseconds(duration),
		logAttrAttempts, metrics.Attempts,
		logAttrPosition, d.position,
	}

	switch status {
	case StatusSuccess:
		d.logInfo(logMsgOperationCompleted, args...)
	case StatusRejected:
		d.logDebug(logMsgOperationRejected, append(args, logAttrError, err.Error())...)
	default:
		d.logError(logMsgOperationFailed, err, args...)
	}

	if d.metricsCollector != nil {
		labels := map[string]string{LabelOperation: operation, LabelStatus: status}
		d.metricsCollector.RecordDuration(MetricOperationDuration, duration, labels)
		d.metricsCollector.IncrementCounter(MetricOperations, labels)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with precision.
func toMilliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}
