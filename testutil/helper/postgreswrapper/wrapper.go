// Package postgreswrapper creates Postgres journals for integration tests, on the client
// library selected by the ADAPTER_TYPE environment variable (pgxpool, sqldb or sqlx).
//
// Tests are skipped when LENDINGDESK_POSTGRES_DSN is not set.
package postgreswrapper

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-ledger-go/circulation/shell/config"
	"github.com/AntonStoeckl/lending-ledger-go/journal/postgresjournal"
	"github.com/AntonStoeckl/lending-ledger-go/testutil/helper"
)

const (
	typePGXPool = "pgxpool"
	typeSQLDB   = "sqldb"
	typeSQLX    = "sqlx"
)

// Wrapper owns a journal on isolated tables and the connection behind it.
type Wrapper struct {
	journal           *postgresjournal.Journal
	eventTableName    string
	snapshotTableName string
	exec              func(ctx context.Context, statement string) error
	close             func()
}

// Journal returns the journal under test.
func (w *Wrapper) Journal() *postgresjournal.Journal {
	return w.journal
}

// AdapterType returns the configured client library.
func AdapterType() string {
	adapterType := strings.ToLower(os.Getenv("ADAPTER_TYPE"))
	if adapterType == "" {
		return typePGXPool
	}

	return adapterType
}

// CreateWrapper connects to the database configured in LENDINGDESK_POSTGRES_DSN, creates
// uniquely named journal tables and registers their removal with t.Cleanup.
func CreateWrapper(t testing.TB, options ...postgresjournal.Option) *Wrapper {
	t.Helper()

	dsn, ok := config.LookupPostgresDSN()
	if !ok {
		t.Skipf("%s is not set, skipping Postgres integration test", config.PostgresDSNEnvVar)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	suffix := helper.GivenUniqueTableSuffix(t)
	w := &Wrapper{
		eventTableName:    "events_" + suffix,
		snapshotTableName: "snapshots_" + suffix,
	}

	options = append(
		options,
		postgresjournal.WithEventTableName(w.eventTableName),
		postgresjournal.WithSnapshotTableName(w.snapshotTableName),
	)

	var err error

	switch AdapterType() {
	case typePGXPool:
		poolConfig, configErr := config.PostgresPGXPoolConfig(dsn)
		require.NoError(t, configErr, "error building pgx pool config in test setup")
		pool, poolErr := pgxpool.NewWithConfig(ctx, poolConfig)
		require.NoError(t, poolErr, "error connecting to DB pool in test setup")
		w.journal, err = postgresjournal.NewJournalFromPGXPool(pool, options...)
		w.exec = func(ctx context.Context, statement string) error {
			_, execErr := pool.Exec(ctx, statement)
			return execErr
		}
		w.close = pool.Close

	case typeSQLDB:
		db, dbErr := config.PostgresSQLDB(ctx, dsn)
		require.NoError(t, dbErr, "error connecting to DB in test setup")
		w.journal, err = postgresjournal.NewJournalFromSQLDB(db, options...)
		w.exec = func(ctx context.Context, statement string) error {
			_, execErr := db.ExecContext(ctx, statement)
			return execErr
		}
		w.close = func() { _ = db.Close() }

	case typeSQLX:
		db, dbErr := config.PostgresSQLX(ctx, dsn)
		require.NoError(t, dbErr, "error connecting to DB in test setup")
		w.journal, err = postgresjournal.NewJournalFromSQLX(db, options...)
		w.exec = func(ctx context.Context, statement string) error {
			_, execErr := db.ExecContext(ctx, statement)
			return execErr
		}
		w.close = func() { _ = db.Close() }

	default:
		t.Fatalf("unsupported adapter type from env: %s", AdapterType())
	}

	require.NoError(t, err, "error creating journal in test setup")
	require.NoError(t, w.journal.CreateSchema(ctx), "error creating schema in test setup")

	t.Cleanup(w.dropTablesAndClose)

	return w
}

func (w *Wrapper) dropTablesAndClose() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = w.exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s, %s", w.eventTableName, w.snapshotTableName))
	w.close()
}
