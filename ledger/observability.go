package ledger

import (
	"errors"
	"time"
)

const (
	logMsgOperation       = "ledger operation: "
	logMsgRejected        = "ledger operation rejected: "
	logAttrItemID         = "item_id"
	logAttrMemberID       = "member_id"
	logAttrReason         = "reason"
	logAttrLateFee        = "late_fee"
	logAttrApplied        = "applied"
	logAttrRemaining      = "remaining"
	metricOperations      = "ledger_operations_total"
	metricRejections      = "ledger_operation_rejections_total"
	metricLateFeeAssessed = "ledger_late_fee_assessed"
	metricPaymentApplied  = "ledger_payment_applied"
	labelOperation        = "operation"
	labelStatus           = "status"
	labelReason           = "reason"
	statusSuccess         = "success"
	statusRejected        = "rejected"
	operationAddItem      = "add_item"
	operationRemoveItem   = "remove_item"
	operationRegister     = "register_member"
	operationIssue        = "issue"
	operationReturn       = "return"
	operationPayFees      = "pay_fees"
)

// logOperation logs a completed mutation at info level if the logger is configured.
func (e *Engine) logOperation(operation string, args ...any) {
	if e.logger != nil {
		e.logger.Info(logMsgOperation+operation, args...)
	}
}

// recordSuccess logs and counts a completed mutation.
func (e *Engine) recordSuccess(operation string, args ...any) {
	e.logOperation(operation, args...)

	if e.metricsCollector != nil {
		e.metricsCollector.IncrementCounter(metricOperations, map[string]string{
			labelOperation: operation,
			labelStatus:    statusSuccess,
		})
	}
}

// recordRejection logs and counts a rejected operation, then hands the error back.
func (e *Engine) recordRejection(operation string, err error, args ...any) error {
	reason := rejectionReason(err)

	if e.logger != nil {
		allArgs := []any{logAttrReason, err.Error()}
		allArgs = append(allArgs, args...)
		e.logger.Debug(logMsgRejected+operation, allArgs...)
	}

	if e.metricsCollector != nil {
		e.metricsCollector.IncrementCounter(metricOperations, map[string]string{
			labelOperation: operation,
			labelStatus:    statusRejected,
		})
		e.metricsCollector.IncrementCounter(metricRejections, map[string]string{
			labelOperation: operation,
			labelReason:    reason,
		})
	}

	return err
}

func (e *Engine) recordValue(metric string, value float64, operation string) {
	if e.metricsCollector != nil {
		e.metricsCollector.RecordValue(metric, value, map[string]string{labelOperation: operation})
	}
}

func (e *Engine) now() time.Time {
	return e.clock()
}

// rejectionReason maps an engine error to a stable metrics label.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrDuplicateIdentifier):
		return "duplicate_identifier"
	case errors.Is(err, ErrItemNotFound):
		return "item_not_found"
	case errors.Is(err, ErrMemberNotFound):
		return "member_not_found"
	case errors.Is(err, ErrItemOnLoan):
		return "item_on_loan"
	case errors.Is(err, ErrItemUnavailable):
		return "item_unavailable"
	case errors.Is(err, ErrBorrowLimitReached):
		return "borrow_limit_reached"
	case errors.Is(err, ErrFeesOwed):
		return "fees_owed"
	case errors.Is(err, ErrNotBorrowedByMember):
		return "not_borrowed_by_member"
	case errors.Is(err, ErrNonPositiveAmount):
		return "non_positive_amount"
	default:
		return "other"
	}
}
