// Package postgresjournal provides a PostgreSQL implementation of the circulation journal.
//
// Events are appended with optimistic concurrency: the insert statement only writes the
// new rows if the newest row matching the caller's filter still has the sequence number
// the caller observed when it queried. Snapshots of the ledger state live in a second table.
//
// Three connection types are supported: pgx pools, database/sql (lib/pq) and sqlx.
//
//	pool, _ := pgxpool.NewWithConfig(ctx, config.PostgresPGXPoolConfig())
//	store, _ := postgresjournal.NewJournalFromPGXPool(
//		pool,
//		postgresjournal.WithLogger(logger),
//		postgresjournal.WithMetrics(collector),
//	)
//
//	if err := store.CreateSchema(ctx); err != nil {
//		// handle error
//	}
//
//	events, maxSeq, _ := store.Query(ctx, filter)
//	err := store.Append(ctx, filter, maxSeq, newEvent)
package postgresjournal
