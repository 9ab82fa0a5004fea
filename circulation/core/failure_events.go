package core

import (
	"time"

	"github.com/AntonStoeckl/lending-ledger-go/ledger"
)

// IssuingItemFailedEventType is the event type identifier.
const IssuingItemFailedEventType = "IssuingItemFailed"

// IssuingItemFailed represents an issue request the ledger refused.
type IssuingItemFailed struct {
	ItemID      ItemIDString
	MemberID    MemberIDString
	FailureInfo string
	OccurredAt  OccurredAt
}

// BuildIssuingItemFailed creates a new IssuingItemFailed event.
func BuildIssuingItemFailed(itemID ItemIDString, memberID MemberIDString, failureInfo string, occurredAt time.Time) IssuingItemFailed {
	return IssuingItemFailed{
		ItemID:      itemID,
		MemberID:    memberID,
		FailureInfo: failureInfo,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e IssuingItemFailed) IsEventType() string {
	return IssuingItemFailedEventType
}

// HasOccurredAt returns when this event occurred.
func (e IssuingItemFailed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns true since this event represents a rejected request.
func (e IssuingItemFailed) IsErrorEvent() bool {
	return true
}

// ReturningItemFailedEventType is the event type identifier.
const ReturningItemFailedEventType = "ReturningItemFailed"

// ReturningItemFailed represents a return request the ledger refused.
type ReturningItemFailed struct {
	ItemID      ItemIDString
	MemberID    MemberIDString
	FailureInfo string
	OccurredAt  OccurredAt
}

// BuildReturningItemFailed creates a new ReturningItemFailed event.
func BuildReturningItemFailed(itemID ItemIDString, memberID MemberIDString, failureInfo string, occurredAt time.Time) ReturningItemFailed {
	return ReturningItemFailed{
		ItemID:      itemID,
		MemberID:    memberID,
		FailureInfo: failureInfo,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

func (e ReturningItemFailed) IsEventType() string {
	return ReturningItemFailedEventType
}

func (e ReturningItemFailed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e ReturningItemFailed) IsErrorEvent() bool {
	return true
}

// PayingFeesFailedEventType is the event type identifier.
const PayingFeesFailedEventType = "PayingFeesFailed"

// PayingFeesFailed represents a payment the ledger refused.
type PayingFeesFailed struct {
	MemberID    MemberIDString
	Amount      ledger.FeeAmount
	FailureInfo string
	OccurredAt  OccurredAt
}

// BuildPayingFeesFailed creates a new PayingFeesFailed event.
func BuildPayingFeesFailed(memberID MemberIDString, amount ledger.FeeAmount, failureInfo string, occurredAt time.Time) PayingFeesFailed {
	return PayingFeesFailed{
		MemberID:    memberID,
		Amount:      amount,
		FailureInfo: failureInfo,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

func (e PayingFeesFailed) IsEventType() string {
	return PayingFeesFailedEventType
}

func (e PayingFeesFailed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e PayingFeesFailed) IsErrorEvent() bool {
	return true
}
