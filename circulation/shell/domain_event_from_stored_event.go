package shell

import (
	"errors"

	"github.com/AntonStoeckl/lending-ledger-go/circulation/core"
	"github.com/AntonStoeckl/lending-ledger-go/journal"
)

var (
	// ErrMappingToDomainEventFailed is returned when domain event conversion fails.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrMappingToDomainEventUnknownEventType is returned for unrecognized event types.
	ErrMappingToDomainEventUnknownEventType = errors.New("unknown event type")
)

// DomainEventsFrom converts multiple StoredEvents to DomainEvents.
func DomainEventsFrom(storedEvents journal.StoredEvents) (core.DomainEvents, error) {
	domainEvents := make(core.DomainEvents, 0, len(storedEvents))

	for _, storedEvent := range storedEvents {
		domainEvent, err := DomainEventFrom(storedEvent)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

// DomainEventFrom converts a StoredEvent to its corresponding DomainEvent.
func DomainEventFrom(storedEvent journal.StoredEvent) (core.DomainEvent, error) {
	switch storedEvent.EventType {
	case core.ItemAddedToCatalogEventType:
		return unmarshalPayload[core.ItemAddedToCatalog](storedEvent.PayloadJSON)
	case core.ItemRemovedFromCatalogEventType:
		return unmarshalPayload[core.ItemRemovedFromCatalog](storedEvent.PayloadJSON)
	case core.MemberRegisteredEventType:
		return unmarshalPayload[core.MemberRegistered](storedEvent.PayloadJSON)
	case core.ItemIssuedToMemberEventType:
		return unmarshalPayload[core.ItemIssuedToMember](storedEvent.PayloadJSON)
	case core.ItemReturnedByMemberEventType:
		return unmarshalPayload[core.ItemReturnedByMember](storedEvent.PayloadJSON)
	case core.FeesPaidEventType:
		return unmarshalPayload[core.FeesPaid](storedEvent.PayloadJSON)
	case core.IssuingItemFailedEventType:
		return unmarshalPayload[core.IssuingItemFailed](storedEvent.PayloadJSON)
	case core.ReturningItemFailedEventType:
		return unmarshalPayload[core.ReturningItemFailed](storedEvent.PayloadJSON)
	case core.PayingFeesFailedEventType:
		return unmarshalPayload[core.PayingFeesFailed](storedEvent.PayloadJSON)
	}

	return nil, errors.Join(ErrMappingToDomainEventFailed, ErrMappingToDomainEventUnknownEventType)
}

func unmarshalPayload[T core.DomainEvent](payloadJSON []byte) (core.DomainEvent, error) {
	var event T

	if err := json.Unmarshal(payloadJSON, &event); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return event, nil
}
