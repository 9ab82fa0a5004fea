package core

import (
	"time"
)

// MemberRegisteredEventType is the event type identifier.
const MemberRegisteredEventType = "MemberRegistered"

// MemberRegistered represents when a member joined the roster.
type MemberRegistered struct {
	MemberID   MemberIDString
	Name       string
	OccurredAt OccurredAt
}

// BuildMemberRegistered creates a new MemberRegistered event.
func BuildMemberRegistered(memberID MemberIDString, name string, occurredAt time.Time) MemberRegistered {
	return MemberRegistered{
		MemberID:   memberID,
		Name:       name,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e MemberRegistered) IsEventType() string {
	return MemberRegisteredEventType
}

// HasOccurredAt returns when this event occurred.
func (e MemberRegistered) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e MemberRegistered) IsErrorEvent() bool {
	return false
}
