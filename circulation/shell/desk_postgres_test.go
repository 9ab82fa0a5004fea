package shell_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-ledger-go/circulation/core"
	"github.com/AntonStoeckl/lending-ledger-go/circulation/shell"
	"github.com/AntonStoeckl/lending-ledger-go/ledger"
	"github.com/AntonStoeckl/lending-ledger-go/testutil/helper/postgreswrapper"
)

func Test_Desk_OnPostgres_SessionSurvivesReopening(t *testing.T) {
	// arrange
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	j := postgreswrapper.CreateWrapper(t).Journal()
	desk := givenDesk(t, j)

	// act
	require.NoError(t, desk.AddItem(ctx, "The Great Gatsby", "F. Scott Fitzgerald", "978-0743273565"))
	require.NoError(t, desk.AddItem(ctx, "1984", "George Orwell", "978-0451524935"))
	require.NoError(t, desk.RegisterMember(ctx, "Ali Khan", "P001"))
	_, err := desk.Issue(ctx, "978-0743273565", "P001")
	require.NoError(t, err)
	_, err = desk.Checkpoint(ctx)
	require.NoError(t, err)
	_, err = desk.ReturnItem(ctx, "978-0743273565", "P001")
	require.NoError(t, err)
	_, err = desk.Issue(ctx, "978-0451524935", "P001")
	reopened := givenDesk(t, j)

	// assert
	assert.ErrorIs(t, err, ledger.ErrFeesOwed)
	assert.Equal(t, desk.Snapshot(), reopened.Snapshot())
	assert.Equal(t, desk.Position(), reopened.Position())

	history, err := reopened.MemberHistory(ctx, "P001")
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.IsType(t, core.IssuingItemFailed{}, history[3])
}

func Test_Desk_OnPostgres_ResolvesConflictsBetweenDesks(t *testing.T) {
	// arrange
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	j := postgreswrapper.CreateWrapper(t).Journal()
	deskA := givenDesk(t, j)
	deskB := givenDesk(t, j)
	require.NoError(t, deskA.AddItem(ctx, "1984", "George Orwell", "978-0451524935"))

	// act
	err := deskB.RegisterMember(ctx, "Sara Ahmed", "P002")

	// assert
	require.NoError(t, err)
	require.NoError(t, deskA.Refresh(ctx))
	assert.Equal(t, deskA.Snapshot(), deskB.Snapshot())
	assert.Equal(t, deskA.Position(), deskB.Position())
}
