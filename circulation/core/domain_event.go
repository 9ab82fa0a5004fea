package core

import (
	"time"
)

// DomainEvents is a slice of DomainEvent instances.
type DomainEvents = []DomainEvent

// DomainEvent represents something that happened at the lending desk.
type DomainEvent interface {
	// IsEventType returns the string identifier for this event type.
	IsEventType() string

	// HasOccurredAt returns when this event occurred.
	HasOccurredAt() time.Time

	// IsErrorEvent returns true if this event records a rejected request.
	IsErrorEvent() bool
}

// AllEventTypes lists every event type, success and failure events alike.
func AllEventTypes() []EventTypeString {
	return []EventTypeString{
		ItemAddedToCatalogEventType,
		ItemRemovedFromCatalogEventType,
		MemberRegisteredEventType,
		ItemIssuedToMemberEventType,
		ItemReturnedByMemberEventType,
		FeesPaidEventType,
		IssuingItemFailedEventType,
		ReturningItemFailedEventType,
		PayingFeesFailedEventType,
	}
}
