package postgresjournal

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/AntonStoeckl/lending-ledger-go/journal"
)

const (
	colName      = "name"
	colData      = "data"
	colCreatedAt = "created_at"
)

// SaveSnapshot inserts or replaces the snapshot with the record's name.
// An existing snapshot is only replaced by one with an equal or higher sequence number,
// so a slow writer never rolls a snapshot back.
func (j *Journal) SaveSnapshot(ctx context.Context, record journal.SnapshotRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	sqlQuery, buildErr := j.buildSaveSnapshotQuery(record)
	if buildErr != nil {
		j.logError(ctx, logMsgSnapshotFailed, buildErr, logAttrSnapshotName, record.Name)

		return errors.Join(journal.ErrSavingSnapshotFailed, buildErr)
	}

	start := time.Now()
	_, execErr := j.db.Exec(ctx, sqlQuery)
	j.logSQL(ctx, sqlQuery, operationSnapshot, time.Since(start))

	if execErr != nil {
		j.logError(ctx, logMsgSnapshotFailed, execErr, logAttrSnapshotName, record.Name, logAttrSQLState, sqlState(execErr))
		j.recordFailure(operationSnapshot, execErr, time.Since(start))

		return errors.Join(journal.ErrSavingSnapshotFailed, execErr)
	}

	j.logOperation(ctx, logMsgSnapshotSaved, logAttrSnapshotName, record.Name, logAttrSequenceNumber, record.SequenceNumber)

	return nil
}

// LoadSnapshot returns journal.ErrSnapshotNotFound if no snapshot with that name exists.
func (j *Journal) LoadSnapshot(ctx context.Context, name string) (journal.SnapshotRecord, error) {
	if name == "" {
		return journal.SnapshotRecord{}, journal.ErrEmptySnapshotName
	}

	sqlQuery, _, toSQLErr := goqu.Dialect(dialectPostgres).
		From(j.snapshotTableName).
		Select(colName, colSequenceNumber, colData, colCreatedAt).
		Where(goqu.C(colName).Eq(name)).
		ToSQL()
	if toSQLErr != nil {
		return journal.SnapshotRecord{}, errors.Join(journal.ErrLoadingSnapshotFailed, journal.ErrBuildingQueryFailed, toSQLErr)
	}

	start := time.Now()
	rows, queryErr := j.db.Query(ctx, sqlQuery)
	j.logSQL(ctx, sqlQuery, operationSnapshot, time.Since(start))

	if queryErr != nil {
		j.logError(ctx, logMsgSnapshotFailed, queryErr, logAttrSnapshotName, name, logAttrSQLState, sqlState(queryErr))
		j.recordFailure(operationSnapshot, queryErr, time.Since(start))

		return journal.SnapshotRecord{}, errors.Join(journal.ErrLoadingSnapshotFailed, queryErr)
	}
	defer j.closeRows(ctx, rows)

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return journal.SnapshotRecord{}, errors.Join(journal.ErrLoadingSnapshotFailed, err)
		}

		return journal.SnapshotRecord{}, journal.ErrSnapshotNotFound
	}

	var record journal.SnapshotRecord
	if err := rows.Scan(&record.Name, &record.SequenceNumber, &record.Data, &record.CreatedAt); err != nil {
		j.logError(ctx, logMsgScanRowFailed, err, logAttrSnapshotName, name)

		return journal.SnapshotRecord{}, errors.Join(journal.ErrLoadingSnapshotFailed, journal.ErrScanningDBRowFailed, err)
	}

	j.logOperation(ctx, logMsgSnapshotLoaded, logAttrSnapshotName, name, logAttrSequenceNumber, record.SequenceNumber)

	return record, nil
}

// DeleteSnapshot removes the snapshot. Deleting a missing snapshot is not an error.
func (j *Journal) DeleteSnapshot(ctx context.Context, name string) error {
	if name == "" {
		return journal.ErrEmptySnapshotName
	}

	sqlQuery, _, toSQLErr := goqu.Dialect(dialectPostgres).
		Delete(j.snapshotTableName).
		Where(goqu.C(colName).Eq(name)).
		ToSQL()
	if toSQLErr != nil {
		return errors.Join(journal.ErrDeletingSnapshotFailed, journal.ErrBuildingQueryFailed, toSQLErr)
	}

	if _, err := j.db.Exec(ctx, sqlQuery); err != nil {
		j.logError(ctx, logMsgSnapshotFailed, err, logAttrSnapshotName, name, logAttrSQLState, sqlState(err))

		return errors.Join(journal.ErrDeletingSnapshotFailed, err)
	}

	j.logOperation(ctx, logMsgSnapshotDeleted, logAttrSnapshotName, name)

	return nil
}

func (j *Journal) buildSaveSnapshotQuery(record journal.SnapshotRecord) (string, error) {
	excluded := func(col string) exp.LiteralExpression {
		return goqu.L("EXCLUDED." + col)
	}

	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(j.snapshotTableName).
		Rows(goqu.Record{
			colName:           record.Name,
			colSequenceNumber: record.SequenceNumber,
			colData:           goqu.L(castJsonb, string(record.Data)),
			colCreatedAt:      record.CreatedAt,
		}).
		OnConflict(
			goqu.DoUpdate(colName, goqu.Record{
				colSequenceNumber: excluded(colSequenceNumber),
				colData:           excluded(colData),
				colCreatedAt:      excluded(colCreatedAt),
			}).Where(goqu.L("EXCLUDED."+colSequenceNumber+" >= ?", goqu.T(j.snapshotTableName).Col(colSequenceNumber))),
		)

	sqlQuery, _, err := insertStmt.ToSQL()
	if err != nil {
		return "", errors.Join(journal.ErrBuildingQueryFailed, err)
	}

	return sqlQuery, nil
}
