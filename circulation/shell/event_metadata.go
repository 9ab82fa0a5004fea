package shell

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/lending-ledger-go/journal"
)

// ErrMappingToEventMetadataFailed is returned when metadata conversion fails.
var ErrMappingToEventMetadataFailed = errors.New("mapping to event metadata failed")

// MessageID represents a unique message identifier.
type MessageID = string

// CausationID represents the ID of the message that caused this event.
type CausationID = string

// CorrelationID represents the ID correlating related events.
type CorrelationID = string

// EventMetadata contains event tracking information.
type EventMetadata struct {
	MessageID     MessageID
	CausationID   CausationID
	CorrelationID CorrelationID
}

// BuildEventMetadata creates EventMetadata from UUID values.
func BuildEventMetadata(messageID uuid.UUID, causationID uuid.UUID, correlationID uuid.UUID) EventMetadata {
	return EventMetadata{
		MessageID:     messageID.String(),
		CausationID:   causationID.String(),
		CorrelationID: correlationID.String(),
	}
}

// EventMetadataFrom extracts EventMetadata from a StoredEvent.
func EventMetadataFrom(storedEvent journal.StoredEvent) (EventMetadata, error) {
	metadata := EventMetadata{}

	if err := json.Unmarshal(storedEvent.MetadataJSON, &metadata); err != nil {
		return EventMetadata{}, errors.Join(ErrMappingToEventMetadataFailed, err)
	}

	return metadata, nil
}

type correlationKey struct{}

// WithCorrelationID returns a context whose desk operations share the given correlation ID.
// Without it, each operation correlates to its own message ID.
func WithCorrelationID(ctx context.Context, correlationID uuid.UUID) context.Context {
	return context.WithValue(ctx, correlationKey{}, correlationID)
}

// newEventMetadata stamps a new message. The correlation ID from the context doubles as causation ID.
func newEventMetadata(ctx context.Context) (EventMetadata, error) {
	messageID, err := uuid.NewV7()
	if err != nil {
		return EventMetadata{}, errors.Join(ErrMappingToEventMetadataFailed, err)
	}

	correlationID, ok := ctx.Value(correlationKey{}).(uuid.UUID)
	if !ok {
		correlationID = messageID
	}

	return BuildEventMetadata(messageID, correlationID, correlationID), nil
}
