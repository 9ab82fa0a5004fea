// Package adapters hides the differences between the supported Postgres client libraries
// (pgx pools, database/sql and sqlx) behind the DBAdapter interface the journal uses.
package adapters
