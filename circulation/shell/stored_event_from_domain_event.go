package shell

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/lending-ledger-go/circulation/core"
	"github.com/AntonStoeckl/lending-ledger-go/journal"
)

// json keeps full float precision for fee amounts, which ConfigFastest would round.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	// ErrMappingToStoredEventFailedForDomainEvent is returned when domain event serialization fails.
	ErrMappingToStoredEventFailedForDomainEvent = errors.New("mapping to stored event failed for domain event")

	// ErrMappingToStoredEventFailedForMetadata is returned when metadata serialization fails.
	ErrMappingToStoredEventFailedForMetadata = errors.New("mapping to stored event failed for metadata")
)

// StoredEventFrom converts a DomainEvent and EventMetadata to a StoredEvent.
func StoredEventFrom(event core.DomainEvent, metadata EventMetadata) (journal.StoredEvent, error) {
	payloadJSON, err := json.Marshal(event)
	if err != nil {
		return journal.StoredEvent{}, errors.Join(ErrMappingToStoredEventFailedForDomainEvent, err)
	}

	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return journal.StoredEvent{}, errors.Join(ErrMappingToStoredEventFailedForMetadata, err)
	}

	storedEvent, err := journal.BuildStoredEvent(event.IsEventType(), event.HasOccurredAt(), payloadJSON, metadataJSON)
	if err != nil {
		return journal.StoredEvent{}, errors.Join(ErrMappingToStoredEventFailedForDomainEvent, err)
	}

	return storedEvent, nil
}
