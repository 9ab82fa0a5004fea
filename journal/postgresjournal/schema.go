package postgresjournal

import (
	"context"
	"errors"
	"fmt"

	"github.com/AntonStoeckl/lending-ledger-go/journal"
)

const eventTableDDL = `
CREATE TABLE IF NOT EXISTS %[1]s (
	sequence_number BIGSERIAL PRIMARY KEY,
	event_type      TEXT        NOT NULL,
	occurred_at     TIMESTAMPTZ NOT NULL,
	payload         JSONB       NOT NULL,
	metadata        JSONB       NOT NULL DEFAULT '{}'::jsonb
);
CREATE INDEX IF NOT EXISTS idx_%[1]s_event_type ON %[1]s (event_type);
CREATE INDEX IF NOT EXISTS idx_%[1]s_occurred_at ON %[1]s (occurred_at);
CREATE INDEX IF NOT EXISTS idx_%[1]s_payload_gin ON %[1]s USING gin (payload jsonb_path_ops);
`

const snapshotTableDDL = `
CREATE TABLE IF NOT EXISTS %[1]s (
	name            TEXT PRIMARY KEY,
	sequence_number BIGINT      NOT NULL,
	data            JSONB       NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL
);
`

// SchemaDDL returns the statements that create the journal tables with the configured names.
func (j *Journal) SchemaDDL() string {
	return fmt.Sprintf(eventTableDDL, j.eventTableName) + fmt.Sprintf(snapshotTableDDL, j.snapshotTableName)
}

// CreateSchema creates the event and snapshot tables and their indexes if they do not exist.
func (j *Journal) CreateSchema(ctx context.Context) error {
	ddl := j.SchemaDDL()

	if _, err := j.db.Exec(ctx, ddl); err != nil {
		j.logError(ctx, logMsgCreateSchemaFailed, err)

		return errors.Join(journal.ErrCreatingSchemaFailed, err)
	}

	j.logOperation(ctx, logMsgSchemaCreated, logAttrEventTable, j.eventTableName, logAttrSnapshotTable, j.snapshotTableName)

	return nil
}
