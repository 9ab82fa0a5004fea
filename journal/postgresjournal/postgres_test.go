package postgresjournal_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-ledger-go/journal"
	"github.com/AntonStoeckl/lending-ledger-go/testutil/helper/postgreswrapper"
)

func Test_Postgres_AppendAndQuery(t *testing.T) {
	// arrange
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	j := postgreswrapper.CreateWrapper(t).Journal()
	filter := journal.Match("ItemIssuedToMember").WhereAny(journal.P("MemberID", "P1")).Build()

	// act
	appendErr := j.Append(
		ctx,
		filter,
		0,
		givenEvent(t, "ItemIssuedToMember", `{"ItemID":"X1","MemberID":"P1"}`),
		givenEvent(t, "ItemIssuedToMember", `{"ItemID":"X2","MemberID":"P2"}`),
	)
	events, maxSeq, queryErr := j.Query(ctx, filter)

	// assert
	require.NoError(t, appendErr)
	require.NoError(t, queryErr)
	require.Len(t, events, 1)
	assert.JSONEq(t, `{"ItemID":"X1","MemberID":"P1"}`, string(events[0].PayloadJSON))
	assert.Equal(t, events[0].SequenceNumber, maxSeq)
}

func Test_Postgres_Append_DetectsConcurrencyConflict(t *testing.T) {
	// arrange
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	j := postgreswrapper.CreateWrapper(t).Journal()
	filter := journal.Match().WhereAny(journal.P("ItemID", "X1")).Build()
	_, maxSeq, err := j.Query(ctx, filter)
	require.NoError(t, err)
	require.NoError(t, j.Append(ctx, filter, maxSeq, givenEvent(t, "ItemAddedToCatalog", `{"ItemID":"X1"}`)))

	// act
	conflictErr := j.Append(ctx, filter, maxSeq, givenEvent(t, "ItemRemovedFromCatalog", `{"ItemID":"X1"}`))

	// assert
	assert.ErrorIs(t, conflictErr, journal.ErrConcurrencyConflict)
}

func Test_Postgres_Snapshots(t *testing.T) {
	// arrange
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	j := postgreswrapper.CreateWrapper(t).Journal()
	newer := givenSnapshot(t, 9, `{"items":[{"id":"X1"}]}`)
	older := givenSnapshot(t, 4, `{"items":[]}`)

	// act
	require.NoError(t, j.SaveSnapshot(ctx, newer))
	require.NoError(t, j.SaveSnapshot(ctx, older))
	loaded, loadErr := j.LoadSnapshot(ctx, "ledger")
	deleteErr := j.DeleteSnapshot(ctx, "ledger")
	_, missingErr := j.LoadSnapshot(ctx, "ledger")

	// assert
	require.NoError(t, loadErr)
	assert.Equal(t, journal.SequenceNumber(9), loaded.SequenceNumber, "an older snapshot must not replace a newer one")
	assert.JSONEq(t, `{"items":[{"id":"X1"}]}`, string(loaded.Data))
	assert.NoError(t, deleteErr)
	assert.ErrorIs(t, missingErr, journal.ErrSnapshotNotFound)
}

func givenEvent(t testing.TB, eventType string, payload string) journal.StoredEvent {
	t.Helper()

	event, err := journal.BuildStoredEventWithEmptyMetadata(eventType, time.Now().UTC().Truncate(time.Microsecond), []byte(payload))
	require.NoError(t, err, "error in arranging test data")

	return event
}

func givenSnapshot(t *testing.T, seq journal.SequenceNumber, data string) journal.SnapshotRecord {
	t.Helper()

	record, err := journal.BuildSnapshotRecord("ledger", seq, []byte(data), time.Now())
	require.NoError(t, err, "error in arranging test data")

	return record
}
