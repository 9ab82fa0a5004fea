package core

import (
	"time"

	"github.com/AntonStoeckl/lending-ledger-go/ledger"
)

// ItemIDString represents a catalog item identifier.
type ItemIDString = ledger.ItemID

// MemberIDString represents a member identifier.
type MemberIDString = ledger.MemberID

// EventTypeString represents an event type identifier.
type EventTypeString = string

// OccurredAt represents when an event occurred.
type OccurredAt = time.Time

// Payload field names used by journal filter predicates.
const (
	ItemIDField   = "ItemID"
	MemberIDField = "MemberID"
)

// ToOccurredAt normalizes to UTC with microsecond precision, the resolution Postgres stores.
func ToOccurredAt(t time.Time) OccurredAt {
	return t.UTC().Truncate(time.Microsecond)
}
