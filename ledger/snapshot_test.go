package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-ledger-go/ledger"
)

func Test_Restore_RoundTripsSnapshot(t *testing.T) {
	// arrange
	engine := givenEngine(t, ledger.WithLateFeePolicy(ledger.FixedLateFeePolicy(10)))
	givenItems(t, engine, "X1", "X2", "X3")
	givenMembers(t, engine, "P1", "P2")
	givenIssued(t, engine, "X2", "P2")
	givenMemberOwes(t, engine, "P1", "X1")
	_, err := engine.PayFees("P1", 4)
	require.NoError(t, err)

	snapshot := engine.Snapshot()

	// act
	restored, err := ledger.Restore(snapshot)

	// assert
	require.NoError(t, err)
	assert.Equal(t, snapshot, restored.Snapshot())
	assert.Equal(t, engine.Statistics(), restored.Statistics())
	assert.Equal(t, engine.ListBorrowed(), restored.ListBorrowed())

	_, err = restored.ReturnItem("X2", "P2")
	assert.NoError(t, err, "the restored held-set must allow the return")
}

func Test_Restore_RejectsInvalidSnapshots(t *testing.T) {
	testCases := []struct {
		name     string
		snapshot ledger.Snapshot
	}{
		{
			name:     "duplicate item",
			snapshot: ledger.Snapshot{Items: []ledger.ItemRecord{onShelf("X1"), onShelf("X1")}},
		},
		{
			name:     "duplicate member",
			snapshot: ledger.Snapshot{Members: []ledger.MemberRecord{member("P1", 0), member("P1", 0)}},
		},
		{
			name:     "negative fees",
			snapshot: ledger.Snapshot{Members: []ledger.MemberRecord{member("P1", -1)}},
		},
		{
			name:     "negative lifetime fees",
			snapshot: ledger.Snapshot{LifetimeFeesCollected: -1},
		},
		{
			name: "too many held items",
			snapshot: ledger.Snapshot{
				Items:   []ledger.ItemRecord{onLoan("1"), onLoan("2"), onLoan("3"), onLoan("4"), onLoan("5"), onLoan("6")},
				Members: []ledger.MemberRecord{member("P1", 0, "1", "2", "3", "4", "5", "6")},
			},
		},
		{
			name:     "held item unknown",
			snapshot: ledger.Snapshot{Members: []ledger.MemberRecord{member("P1", 0, "X1")}},
		},
		{
			name: "held item available",
			snapshot: ledger.Snapshot{
				Items:   []ledger.ItemRecord{onShelf("X1")},
				Members: []ledger.MemberRecord{member("P1", 0, "X1")},
			},
		},
		{
			name: "item on loan without holder",
			snapshot: ledger.Snapshot{
				Items:   []ledger.ItemRecord{onLoan("X1")},
				Members: []ledger.MemberRecord{member("P1", 0)},
			},
		},
		{
			name: "item held twice",
			snapshot: ledger.Snapshot{
				Items:   []ledger.ItemRecord{onLoan("X1")},
				Members: []ledger.MemberRecord{member("P1", 0, "X1"), member("P2", 0, "X1")},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			engine, err := ledger.Restore(tc.snapshot)

			// assert
			assert.ErrorIs(t, err, ledger.ErrInvalidSnapshot)
			assert.Nil(t, engine)
		})
	}
}
