package shell_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-ledger-go/circulation/shell"
	"github.com/AntonStoeckl/lending-ledger-go/journal/memjournal"
	"github.com/AntonStoeckl/lending-ledger-go/ledger"
)

func Benchmark_Desk_IssueAndReturn(b *testing.B) {
	ctx := context.Background()
	j, err := memjournal.New()
	require.NoError(b, err)

	desk, err := shell.OpenDesk(ctx, j, shell.WithEngineOptions(ledger.WithLateFeePolicy(ledger.NoLateFeePolicy())))
	require.NoError(b, err)

	for i := 0; i < 500; i++ {
		require.NoError(b, desk.AddItem(ctx, "Title", "Author", fmt.Sprintf("B%03d", i)))
	}

	require.NoError(b, desk.RegisterMember(ctx, "Ali Khan", "P001"))

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		itemID := fmt.Sprintf("B%03d", i%500)

		if _, err := desk.Issue(ctx, itemID, "P001"); err != nil {
			b.Fatal(err)
		}

		if _, err := desk.ReturnItem(ctx, itemID, "P001"); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_OpenDesk_ReplaysTheJournal(b *testing.B) {
	ctx := context.Background()
	j, err := memjournal.New()
	require.NoError(b, err)

	desk, err := shell.OpenDesk(ctx, j, shell.WithEngineOptions(ledger.WithLateFeePolicy(ledger.NoLateFeePolicy())))
	require.NoError(b, err)

	for i := 0; i < 1000; i++ {
		require.NoError(b, desk.AddItem(ctx, "Title", "Author", fmt.Sprintf("B%04d", i)))
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := shell.OpenDesk(ctx, j); err != nil {
			b.Fatal(err)
		}
	}
}
