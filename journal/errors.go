package journal

import (
	"errors"
)

var (
	// ErrConcurrencyConflict is returned by Append when a matching event was recorded after the expected sequence number.
	ErrConcurrencyConflict = errors.New("concurrency error, no rows were affected")

	// ErrEmptyTableName is returned when an empty table name is configured.
	ErrEmptyTableName = errors.New("empty table name supplied")

	// ErrNilDatabaseConnection is returned when a nil database handle is supplied.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	ErrEmptyEventType      = errors.New("event type must not be empty")
	ErrInvalidPayloadJSON  = errors.New("payload json is not valid")
	ErrInvalidMetadataJSON = errors.New("metadata json is not valid")

	ErrBuildingQueryFailed       = errors.New("building query failed")
	ErrQueryingEventsFailed      = errors.New("querying events failed")
	ErrScanningDBRowFailed       = errors.New("scanning db row failed")
	ErrBuildingStoredEventFailed = errors.New("building stored event failed")
	ErrAppendingEventFailed      = errors.New("appending event failed")
	ErrGettingRowsAffectedFailed = errors.New("getting rows affected failed")
	ErrCreatingSchemaFailed      = errors.New("creating schema failed")
)

var (
	// ErrEmptySnapshotName is returned when a snapshot is built or loaded without a name.
	ErrEmptySnapshotName = errors.New("snapshot name must not be empty")

	// ErrInvalidSnapshotJSON is returned when snapshot data is not valid JSON.
	ErrInvalidSnapshotJSON = errors.New("snapshot json is not valid")

	// ErrSnapshotNotFound is returned by LoadSnapshot when no snapshot with the given name exists.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	ErrSavingSnapshotFailed   = errors.New("saving snapshot failed")
	ErrLoadingSnapshotFailed  = errors.New("loading snapshot failed")
	ErrDeletingSnapshotFailed = errors.New("deleting snapshot failed")
)
