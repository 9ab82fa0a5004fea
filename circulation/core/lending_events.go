package core

import (
	"time"

	"github.com/AntonStoeckl/lending-ledger-go/ledger"
)

// ItemIssuedToMemberEventType is the event type identifier.
const ItemIssuedToMemberEventType = "ItemIssuedToMember"

// ItemIssuedToMember represents when an item was lent to a member.
type ItemIssuedToMember struct {
	ItemID     ItemIDString
	MemberID   MemberIDString
	OccurredAt OccurredAt
}

// BuildItemIssuedToMember creates a new ItemIssuedToMember event.
func BuildItemIssuedToMember(itemID ItemIDString, memberID MemberIDString, occurredAt time.Time) ItemIssuedToMember {
	return ItemIssuedToMember{
		ItemID:     itemID,
		MemberID:   memberID,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e ItemIssuedToMember) IsEventType() string {
	return ItemIssuedToMemberEventType
}

// HasOccurredAt returns when this event occurred.
func (e ItemIssuedToMember) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e ItemIssuedToMember) IsErrorEvent() bool {
	return false
}

// ItemReturnedByMemberEventType is the event type identifier.
const ItemReturnedByMemberEventType = "ItemReturnedByMember"

// ItemReturnedByMember represents when a member brought an item back.
// LateFee is the fee the policy assessed at that moment; replaying the journal
// reuses it instead of asking the policy again.
type ItemReturnedByMember struct {
	ItemID     ItemIDString
	MemberID   MemberIDString
	LateFee    ledger.FeeAmount
	OccurredAt OccurredAt
}

// BuildItemReturnedByMember creates a new ItemReturnedByMember event.
func BuildItemReturnedByMember(
	itemID ItemIDString,
	memberID MemberIDString,
	lateFee ledger.FeeAmount,
	occurredAt time.Time,
) ItemReturnedByMember {

	return ItemReturnedByMember{
		ItemID:     itemID,
		MemberID:   memberID,
		LateFee:    lateFee,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e ItemReturnedByMember) IsEventType() string {
	return ItemReturnedByMemberEventType
}

func (e ItemReturnedByMember) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e ItemReturnedByMember) IsErrorEvent() bool {
	return false
}

// FeesPaidEventType is the event type identifier.
const FeesPaidEventType = "FeesPaid"

// FeesPaid represents a payment. Applied is capped at the balance owed, so it can be lower than Requested.
type FeesPaid struct {
	MemberID   MemberIDString
	Requested  ledger.FeeAmount
	Applied    ledger.FeeAmount
	OccurredAt OccurredAt
}

// BuildFeesPaid creates a new FeesPaid event.
func BuildFeesPaid(memberID MemberIDString, requested, applied ledger.FeeAmount, occurredAt time.Time) FeesPaid {
	return FeesPaid{
		MemberID:   memberID,
		Requested:  requested,
		Applied:    applied,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e FeesPaid) IsEventType() string {
	return FeesPaidEventType
}

func (e FeesPaid) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e FeesPaid) IsErrorEvent() bool {
	return false
}
