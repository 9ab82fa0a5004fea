package journal_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-ledger-go/journal"
)

func Test_BuildStoredEvent(t *testing.T) {
	// arrange
	occurredAt := time.Now()
	payload := []byte(`{"ItemID":"X1"}`)
	metadata := []byte(`{"MessageID":"m"}`)

	// act
	event, err := journal.BuildStoredEvent("ItemAddedToCatalog", occurredAt, payload, metadata)

	// assert
	require.NoError(t, err)
	assert.Equal(t, "ItemAddedToCatalog", event.EventType)
	assert.Equal(t, occurredAt, event.OccurredAt)
	assert.Equal(t, payload, event.PayloadJSON)
	assert.Equal(t, metadata, event.MetadataJSON)
	assert.Zero(t, event.SequenceNumber)
}

func Test_BuildStoredEvent_Rejects(t *testing.T) {
	testCases := []struct {
		description string
		eventType   string
		payload     string
		metadata    string
		expectedErr error
	}{
		{"empty event type", "", `{}`, `{}`, journal.ErrEmptyEventType},
		{"invalid payload", "E", `{"ItemID":`, `{}`, journal.ErrInvalidPayloadJSON},
		{"invalid metadata", "E", `{}`, `not json`, journal.ErrInvalidMetadataJSON},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			_, err := journal.BuildStoredEvent(tc.eventType, time.Now(), []byte(tc.payload), []byte(tc.metadata))

			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func Test_BuildStoredEventWithEmptyMetadata(t *testing.T) {
	// act
	event, err := journal.BuildStoredEventWithEmptyMetadata("E", time.Now(), []byte(`{}`))

	// assert
	require.NoError(t, err)
	assert.Equal(t, []byte("{}"), event.MetadataJSON)
}

func Test_BuildSnapshotRecord(t *testing.T) {
	// act
	record, err := journal.BuildSnapshotRecord("ledger", 12, []byte(`{"items":[]}`), time.Now())
	_, emptyNameErr := journal.BuildSnapshotRecord("", 12, []byte(`{}`), time.Now())
	_, invalidJSONErr := journal.BuildSnapshotRecord("ledger", 12, []byte(`{`), time.Now())

	// assert
	require.NoError(t, err)
	assert.Equal(t, journal.SequenceNumber(12), record.SequenceNumber)
	assert.ErrorIs(t, emptyNameErr, journal.ErrEmptySnapshotName)
	assert.ErrorIs(t, invalidJSONErr, journal.ErrInvalidSnapshotJSON)
}
