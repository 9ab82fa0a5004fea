package shell_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-ledger-go/circulation/core"
	"github.com/AntonStoeckl/lending-ledger-go/circulation/shell"
	"github.com/AntonStoeckl/lending-ledger-go/journal"
)

func Test_StoredEventFrom_And_DomainEventFrom_RoundTripEveryEventType(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 123456000, time.UTC)

	events := core.DomainEvents{
		core.BuildItemAddedToCatalog("978-0743273565", "The Great Gatsby", "F. Scott Fitzgerald", now),
		core.BuildItemRemovedFromCatalog("978-0743273565", now),
		core.BuildMemberRegistered("P001", "Ali Khan", now),
		core.BuildItemIssuedToMember("978-0743273565", "P001", now),
		core.BuildItemReturnedByMember("978-0743273565", "P001", 10, now),
		core.BuildFeesPaid("P001", 15.75, 10, now),
		core.BuildIssuingItemFailed("978-0743273565", "P001", "item is unavailable", now),
		core.BuildReturningItemFailed("978-0743273565", "P002", "item is not borrowed by member", now),
		core.BuildPayingFeesFailed("P001", -1, "amount must be positive", now),
	}

	for _, event := range events {
		t.Run(event.IsEventType(), func(t *testing.T) {
			storedEvent, err := shell.StoredEventFrom(event, givenMetadata(t))
			require.NoError(t, err)

			mapped, err := shell.DomainEventFrom(storedEvent)
			require.NoError(t, err)

			assert.Equal(t, event, mapped)
			assert.Equal(t, event.IsEventType(), storedEvent.EventType)
			assert.True(t, now.Equal(storedEvent.OccurredAt))
		})
	}
}

func Test_StoredEventFrom_UsesPayloadFieldNamesOfTheFilterPredicates(t *testing.T) {
	event := core.BuildItemIssuedToMember("X1", "P001", time.Now())

	storedEvent, err := shell.StoredEventFrom(event, givenMetadata(t))
	require.NoError(t, err)

	filter := journal.Match(core.ItemIssuedToMemberEventType).
		WhereAll(journal.P(core.ItemIDField, "X1"), journal.P(core.MemberIDField, "P001")).
		Build()
	assert.True(t, filter.Matches(storedEvent))
}

func Test_DomainEventFrom_UnknownEventType(t *testing.T) {
	storedEvent, err := journal.BuildStoredEventWithEmptyMetadata("SomethingElse", time.Now(), []byte(`{}`))
	require.NoError(t, err)

	_, err = shell.DomainEventFrom(storedEvent)

	assert.ErrorIs(t, err, shell.ErrMappingToDomainEventFailed)
	assert.ErrorIs(t, err, shell.ErrMappingToDomainEventUnknownEventType)
}

func Test_DomainEventFrom_InvalidPayload(t *testing.T) {
	storedEvent, err := journal.BuildStoredEventWithEmptyMetadata(core.FeesPaidEventType, time.Now(), []byte(`{"Applied":"ten"}`))
	require.NoError(t, err)

	_, err = shell.DomainEventFrom(storedEvent)

	assert.ErrorIs(t, err, shell.ErrMappingToDomainEventFailed)
}

func Test_EventMetadataFrom(t *testing.T) {
	metadata := givenMetadata(t)
	storedEvent, err := shell.StoredEventFrom(core.BuildMemberRegistered("P001", "Ali Khan", time.Now()), metadata)
	require.NoError(t, err)

	extracted, err := shell.EventMetadataFrom(storedEvent)

	require.NoError(t, err)
	assert.Equal(t, metadata, extracted)
}

func Test_WithCorrelationID_IsStampedOnJournaledEvents(t *testing.T) {
	// arrange
	correlationID := uuid.New()
	ctx := shell.WithCorrelationID(context.Background(), correlationID)
	j := givenMemJournal(t)
	desk := givenDesk(t, j)

	// act
	require.NoError(t, desk.RegisterMember(ctx, "Ali Khan", "P001"))

	// assert
	storedEvents, _, err := j.Query(context.Background(), journal.MatchAnyEvent())
	require.NoError(t, err)
	require.Len(t, storedEvents, 1)
	metadata, err := shell.EventMetadataFrom(storedEvents[0])
	require.NoError(t, err)
	assert.Equal(t, correlationID.String(), metadata.CorrelationID)
	assert.Equal(t, correlationID.String(), metadata.CausationID)
	assert.NotEqual(t, correlationID.String(), metadata.MessageID)
}

func givenMetadata(t *testing.T) shell.EventMetadata {
	t.Helper()

	return shell.BuildEventMetadata(uuid.New(), uuid.New(), uuid.New())
}
