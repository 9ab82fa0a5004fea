package journal

import (
	"time"

	jsoniter "github.com/json-iterator/go"
)

// SequenceNumber is the position of an event in the journal. Zero means "no event".
type SequenceNumber = uint

// StoredEvents is an alias type for a slice of StoredEvent.
type StoredEvents = []StoredEvent

// StoredEvent is the DTO the journal appends and queries back.
//
// It is built on scalars so the journal stays agnostic of the domain event types.
// SequenceNumber is assigned by the journal and is zero for events that were not stored yet.
// Construct it with BuildStoredEvent or BuildStoredEventWithEmptyMetadata.
type StoredEvent struct {
	EventType      string
	OccurredAt     time.Time
	PayloadJSON    []byte
	MetadataJSON   []byte
	SequenceNumber SequenceNumber
}

// BuildStoredEvent is a factory method for StoredEvent.
//
// Returns an error if the event type is empty or payloadJSON or metadataJSON are not valid JSON.
func BuildStoredEvent(eventType string, occurredAt time.Time, payloadJSON []byte, metadataJSON []byte) (StoredEvent, error) {
	if eventType == "" {
		return StoredEvent{}, ErrEmptyEventType
	}

	if !jsoniter.ConfigFastest.Valid(payloadJSON) {
		return StoredEvent{}, ErrInvalidPayloadJSON
	}

	if !jsoniter.ConfigFastest.Valid(metadataJSON) {
		return StoredEvent{}, ErrInvalidMetadataJSON
	}

	return StoredEvent{
		EventType:    eventType,
		OccurredAt:   occurredAt,
		PayloadJSON:  payloadJSON,
		MetadataJSON: metadataJSON,
	}, nil
}

// BuildStoredEventWithEmptyMetadata is like BuildStoredEvent with "{}" as metadata.
func BuildStoredEventWithEmptyMetadata(eventType string, occurredAt time.Time, payloadJSON []byte) (StoredEvent, error) {
	return BuildStoredEvent(eventType, occurredAt, payloadJSON, []byte("{}"))
}

// WithSequenceNumber returns a copy of the event tagged with the position the journal assigned to it.
func (e StoredEvent) WithSequenceNumber(sequenceNumber SequenceNumber) StoredEvent {
	e.SequenceNumber = sequenceNumber

	return e
}
