// Package config provides database configuration helpers for the lending desk.
//
// It resolves the Postgres DSN (overridable through the LENDINGDESK_POSTGRES_DSN environment
// variable) and builds tuned connections for the three supported client libraries:
// pgx pools, database/sql with lib/pq, and sqlx.
package config
