package ledger_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-ledger-go/ledger"
)

func Test_SyncEngine_ConcurrentIssuesOfOneItem_ExactlyOneSucceeds(t *testing.T) {
	// arrange
	engine := givenEngine(t)
	givenItems(t, engine, "X1")

	const numMembers = 20
	for i := 0; i < numMembers; i++ {
		givenMembers(t, engine, fmt.Sprintf("P%02d", i))
	}

	syncEngine := ledger.NewSyncEngine(engine)

	var wg sync.WaitGroup
	results := make(chan error, numMembers)

	// act
	for i := 0; i < numMembers; i++ {
		wg.Add(1)
		go func(memberID ledger.MemberID) {
			defer wg.Done()
			_, err := syncEngine.Issue("X1", memberID)
			results <- err
		}(fmt.Sprintf("P%02d", i))
	}

	wg.Wait()
	close(results)

	// assert
	successes := 0
	for err := range results {
		if err == nil {
			successes++
			continue
		}

		assert.True(t, errors.Is(err, ledger.ErrItemUnavailable))
	}

	assert.Equal(t, 1, successes)
	require.Len(t, syncEngine.ListBorrowed(), 1)
	assert.Equal(t, 1, syncEngine.Statistics().BorrowedItems)
}

func Test_SyncEngine_Do_RunsExclusively(t *testing.T) {
	// arrange
	syncEngine := ledger.NewSyncEngine(givenEngine(t))

	// act
	err := syncEngine.Do(func(engine *ledger.Engine) error {
		if addErr := engine.AddItem("1984", "Orwell", "X1"); addErr != nil {
			return addErr
		}

		return engine.RegisterMember("Ali", "P1")
	})

	// assert
	require.NoError(t, err)
	assert.Len(t, syncEngine.ListAvailable(), 1)
	assert.Len(t, syncEngine.ListMembers(), 1)
	assert.Len(t, syncEngine.Snapshot().Items, 1)
}
