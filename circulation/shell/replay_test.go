package shell_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-ledger-go/circulation/core"
	"github.com/AntonStoeckl/lending-ledger-go/circulation/shell"
	"github.com/AntonStoeckl/lending-ledger-go/ledger"
)

func Test_Replay_RebuildsTheLedgerWithRecordedFees(t *testing.T) {
	// arrange
	now := time.Now()
	events := core.DomainEvents{
		core.BuildItemAddedToCatalog("B1", "1984", "George Orwell", now),
		core.BuildItemAddedToCatalog("B2", "Pride and Prejudice", "Jane Austen", now),
		core.BuildMemberRegistered("P001", "Ali Khan", now),
		core.BuildItemIssuedToMember("B1", "P001", now),
		core.BuildIssuingItemFailed("B1", "P001", "item is unavailable", now),
		core.BuildItemReturnedByMember("B1", "P001", 10, now),
		core.BuildFeesPaid("P001", 12, 10, now),
		core.BuildItemIssuedToMember("B2", "P001", now),
		core.BuildItemRemovedFromCatalog("B1", now),
	}

	// act
	snapshot, err := shell.Replay(ledger.Snapshot{}, events)

	// assert
	require.NoError(t, err)
	engine, err := ledger.Restore(snapshot)
	require.NoError(t, err)

	member, found := engine.FindMember("P001")
	require.True(t, found)
	assert.Equal(t, ledger.FeeAmount(0), member.OutstandingFees)
	assert.Equal(t, []ledger.ItemID{"B2"}, member.HeldItemIDs)

	_, found = engine.FindItem("B1")
	assert.False(t, found)

	stats := engine.Statistics()
	assert.Equal(t, 1, stats.TotalItems)
	assert.Equal(t, 1, stats.BorrowedItems)
	assert.Equal(t, ledger.FeeAmount(10), stats.LifetimeFeesCollected)
}

func Test_Replay_ContinuesFromABaseSnapshot(t *testing.T) {
	// arrange
	base, err := shell.Replay(ledger.Snapshot{}, core.DomainEvents{
		core.BuildItemAddedToCatalog("B1", "1984", "George Orwell", time.Now()),
		core.BuildMemberRegistered("P001", "Ali Khan", time.Now()),
	})
	require.NoError(t, err)

	// act
	snapshot, err := shell.Replay(base, core.DomainEvents{
		core.BuildItemIssuedToMember("B1", "P001", time.Now()),
	})

	// assert
	require.NoError(t, err)
	require.Len(t, snapshot.Items, 1)
	assert.False(t, snapshot.Items[0].Available)
	assert.Equal(t, []ledger.ItemID{"B1"}, snapshot.Members[0].HeldItemIDs)
}

func Test_Replay_FailsOnEventsTheLedgerRefuses(t *testing.T) {
	// act
	_, err := shell.Replay(ledger.Snapshot{}, core.DomainEvents{
		core.BuildItemIssuedToMember("B1", "P001", time.Now()),
	})

	// assert
	assert.ErrorIs(t, err, shell.ErrReplayFailed)
	assert.ErrorIs(t, err, ledger.ErrItemNotFound)
}

func Test_Replay_DetectsDivergingPayments(t *testing.T) {
	// act
	_, err := shell.Replay(ledger.Snapshot{}, core.DomainEvents{
		core.BuildMemberRegistered("P001", "Ali Khan", time.Now()),
		core.BuildFeesPaid("P001", 5, 5, time.Now()),
	})

	// assert
	assert.ErrorIs(t, err, shell.ErrReplayFailed)
	assert.ErrorIs(t, err, shell.ErrReplayDiverged)
}

func Test_Replay_RejectsAnInvalidBase(t *testing.T) {
	// act
	_, err := shell.Replay(ledger.Snapshot{LifetimeFeesCollected: -1}, nil)

	// assert
	assert.ErrorIs(t, err, shell.ErrReplayFailed)
	assert.ErrorIs(t, err, ledger.ErrInvalidSnapshot)
}
