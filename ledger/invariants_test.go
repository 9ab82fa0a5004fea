package ledger_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-ledger-go/ledger"
)

func Test_Engine_InvariantsHoldForRandomOperationSequences(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewPCG(seed, seed*7)) //nolint:gosec // deterministic test input

		engine, err := ledger.NewEngine(ledger.WithLateFeePolicy(ledger.RandomLateFeePolicy(rng.Float64)))
		require.NoError(t, err)

		itemIDs := []ledger.ItemID{"I1", "I2", "I3", "I4", "I5", "I6", "I7", "I8"}
		memberIDs := []ledger.MemberID{"M1", "M2", "M3"}
		collected := ledger.FeeAmount(0)

		for step := 0; step < 500; step++ {
			itemID := itemIDs[rng.IntN(len(itemIDs))]
			memberID := memberIDs[rng.IntN(len(memberIDs))]

			switch rng.IntN(7) {
			case 0:
				_ = engine.AddItem("t", "a", itemID)
			case 1:
				_ = engine.RemoveItem(itemID)
			case 2:
				_ = engine.RegisterMember("n", memberID)
			case 3, 4:
				_, _ = engine.Issue(itemID, memberID)
			case 5:
				_, _ = engine.ReturnItem(itemID, memberID)
			case 6:
				receipt, payErr := engine.PayFees(memberID, ledger.FeeAmount(rng.IntN(15)))
				if payErr == nil {
					collected += receipt.Applied
				}
			}

			assertInvariants(t, engine)
			assert.Equal(t, collected, engine.Statistics().LifetimeFeesCollected)
		}
	}
}

func assertInvariants(t *testing.T, engine *ledger.Engine) {
	t.Helper()

	snapshot := engine.Snapshot()
	stats := engine.Statistics()

	holders := make(map[ledger.ItemID]int)
	outstanding := ledger.FeeAmount(0)
	memberIDs := make(map[ledger.MemberID]bool)

	for _, m := range snapshot.Members {
		require.False(t, memberIDs[m.ID], "duplicate member id %s", m.ID)
		memberIDs[m.ID] = true

		require.LessOrEqual(t, len(m.HeldItemIDs), ledger.MaxHeldItems)
		require.GreaterOrEqual(t, m.OutstandingFees, ledger.FeeAmount(0))
		outstanding += m.OutstandingFees

		for _, itemID := range m.HeldItemIDs {
			holders[itemID]++
		}
	}

	itemIDs := make(map[ledger.ItemID]bool)
	for _, item := range snapshot.Items {
		require.False(t, itemIDs[item.ID], "duplicate item id %s", item.ID)
		itemIDs[item.ID] = true

		if item.Available {
			require.Zero(t, holders[item.ID], "available item %s is held", item.ID)
		} else {
			require.Equal(t, 1, holders[item.ID], "item %s on loan must be held exactly once", item.ID)
		}
	}

	require.Equal(t, stats.TotalItems, stats.AvailableItems+stats.BorrowedItems)
	require.InDelta(t, outstanding, stats.CurrentOutstanding, 1e-9)
}
