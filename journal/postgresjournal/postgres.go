package postgresjournal

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/lending-ledger-go/journal"
	"github.com/AntonStoeckl/lending-ledger-go/journal/postgresjournal/internal/adapters"
)

const (
	defaultEventTableName    = "events"
	defaultSnapshotTableName = "snapshots"
	dialectPostgres          = "postgres"
	colSequenceNumber        = "sequence_number"
	colEventType             = "event_type"
	colOccurredAt            = "occurred_at"
	colPayload               = "payload"
	colMetadata              = "metadata"
	cteContext               = "context"
	cteVals                  = "vals"
	aliasMaxSeq              = "max_seq"
	castText                 = "?::text"
	castTimestamp            = "?::timestamptz"
	castJsonb                = "?::jsonb"
	payloadContains          = "payload @> ?::jsonb"
)

// Journal is the Postgres-backed circulation journal.
type Journal struct {
	db                adapters.DBAdapter
	eventTableName    string
	snapshotTableName string
	logger            journal.Logger
	contextualLogger  journal.ContextualLogger
	metricsCollector  journal.MetricsCollector
}

type queryResultRow struct {
	eventType      string
	occurredAt     time.Time
	payload        []byte
	metadata       []byte
	sequenceNumber journal.SequenceNumber
}

// NewJournalFromPGXPool creates a Journal on a pgx pool.
func NewJournalFromPGXPool(db *pgxpool.Pool, options ...Option) (*Journal, error) {
	if db == nil {
		return nil, journal.ErrNilDatabaseConnection
	}

	return newJournal(adapters.NewPGXAdapter(db), options...)
}

// NewJournalFromSQLDB creates a Journal on a database/sql handle, typically opened with lib/pq.
func NewJournalFromSQLDB(db *sql.DB, options ...Option) (*Journal, error) {
	if db == nil {
		return nil, journal.ErrNilDatabaseConnection
	}

	return newJournal(adapters.NewSQLAdapter(db), options...)
}

// NewJournalFromSQLX creates a Journal on a sqlx handle.
func NewJournalFromSQLX(db *sqlx.DB, options ...Option) (*Journal, error) {
	if db == nil {
		return nil, journal.ErrNilDatabaseConnection
	}

	return newJournal(adapters.NewSQLXAdapter(db), options...)
}

func newJournal(db adapters.DBAdapter, options ...Option) (*Journal, error) {
	j := &Journal{
		db:                db,
		eventTableName:    defaultEventTableName,
		snapshotTableName: defaultSnapshotTableName,
	}

	for _, option := range options {
		if err := option(j); err != nil {
			return nil, err
		}
	}

	return j, nil
}

// Query retrieves the events matching the filter in journal order,
// together with the highest sequence number of this "dynamic event stream".
// With an After bound and no newer events, the bound itself is returned.
func (j *Journal) Query(ctx context.Context, filter journal.Filter) (journal.StoredEvents, journal.SequenceNumber, error) {
	sqlQuery, buildErr := j.buildSelectQuery(filter)
	if buildErr != nil {
		j.logError(ctx, logMsgBuildSelectQueryFailed, buildErr)

		return nil, 0, buildErr
	}

	start := time.Now()
	rows, queryErr := j.db.Query(ctx, sqlQuery)
	j.logSQL(ctx, sqlQuery, operationQuery, time.Since(start))

	if queryErr != nil {
		j.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery, logAttrSQLState, sqlState(queryErr))
		j.recordFailure(operationQuery, queryErr, time.Since(start))

		return nil, 0, errors.Join(journal.ErrQueryingEventsFailed, queryErr)
	}
	defer j.closeRows(ctx, rows)

	events, maxSequenceNumber, scanErr := j.scanEvents(ctx, rows, filter.AfterSequence())
	duration := time.Since(start)

	if scanErr != nil {
		j.recordFailure(operationQuery, scanErr, duration)

		return nil, 0, scanErr
	}

	j.recordQuerySuccess(len(events), duration)
	j.logOperation(ctx, logMsgQueryCompleted, logAttrEventCount, len(events), logAttrDurationMS, toMilliseconds(duration))

	return events, maxSequenceNumber, nil
}

func (j *Journal) scanEvents(
	ctx context.Context,
	rows adapters.DBRows,
	after journal.SequenceNumber,
) (journal.StoredEvents, journal.SequenceNumber, error) {

	events := make(journal.StoredEvents, 0)
	maxSequenceNumber := after
	row := queryResultRow{}

	for rows.Next() {
		if err := rows.Scan(&row.eventType, &row.occurredAt, &row.payload, &row.metadata, &row.sequenceNumber); err != nil {
			j.logError(ctx, logMsgScanRowFailed, err)

			return nil, 0, errors.Join(journal.ErrScanningDBRowFailed, err)
		}

		event, err := journal.BuildStoredEvent(row.eventType, row.occurredAt, row.payload, row.metadata)
		if err != nil {
			j.logError(ctx, logMsgBuildStoredEventFailed, err, logAttrEventType, row.eventType)

			return nil, 0, errors.Join(journal.ErrBuildingStoredEventFailed, err)
		}

		events = append(events, event.WithSequenceNumber(row.sequenceNumber))
		maxSequenceNumber = row.sequenceNumber
	}

	if err := rows.Err(); err != nil {
		j.logError(ctx, logMsgScanRowFailed, err)

		return nil, 0, errors.Join(journal.ErrScanningDBRowFailed, err)
	}

	return events, maxSequenceNumber, nil
}

// Append writes one or more events atomically, but only if the newest event matching the filter
// still has expectedMaxSequenceNumber. Otherwise it returns journal.ErrConcurrencyConflict.
//
// Pass the same filter that was used for the Query the decision was based on.
// The filter's After bound is ignored here.
func (j *Journal) Append(
	ctx context.Context,
	filter journal.Filter,
	expectedMaxSequenceNumber journal.SequenceNumber,
	event journal.StoredEvent,
	additionalEvents ...journal.StoredEvent,
) error {

	allEvents := append(journal.StoredEvents{event}, additionalEvents...)

	sqlQuery, buildErr := j.buildAppendQuery(allEvents, filter.WithoutSequenceBound(), expectedMaxSequenceNumber)
	if buildErr != nil {
		j.logError(ctx, logMsgBuildInsertQueryFailed, buildErr, logAttrEventCount, len(allEvents))

		return buildErr
	}

	start := time.Now()
	result, execErr := j.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	j.logSQL(ctx, sqlQuery, operationAppend, duration)

	if execErr != nil {
		j.logError(ctx, logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery, logAttrSQLState, sqlState(execErr))
		j.recordFailure(operationAppend, execErr, duration)

		return errors.Join(journal.ErrAppendingEventFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		j.logError(ctx, logMsgRowsAffectedFailed, rowsAffectedErr)
		j.recordFailure(operationAppend, rowsAffectedErr, duration)

		return errors.Join(journal.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	if rowsAffected < int64(len(allEvents)) {
		j.logOperation(
			ctx,
			logMsgConcurrencyConflict,
			logAttrExpectedEvents, len(allEvents),
			logAttrRowsAffected, rowsAffected,
			logAttrExpectedSequence, expectedMaxSequenceNumber,
		)
		j.recordConcurrencyConflict()

		return journal.ErrConcurrencyConflict
	}

	j.recordAppendSuccess(len(allEvents), duration)
	j.logOperation(ctx, logMsgEventsAppended, logAttrEventCount, len(allEvents), logAttrDurationMS, toMilliseconds(duration))

	return nil
}

func (j *Journal) buildSelectQuery(filter journal.Filter) (string, error) {
	whereClause, err := buildWhereClause(filter)
	if err != nil {
		return "", err
	}

	selectStmt := goqu.Dialect(dialectPostgres).
		From(j.eventTableName).
		Select(colEventType, colOccurredAt, colPayload, colMetadata, colSequenceNumber).
		Where(whereClause).
		Order(goqu.I(colSequenceNumber).Asc())

	if filter.AfterSequence() > 0 {
		selectStmt = selectStmt.Where(goqu.C(colSequenceNumber).Gt(filter.AfterSequence()))
	}

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(journal.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// buildAppendQuery renders
//
//	WITH context AS (SELECT MAX(sequence_number) AS max_seq FROM events WHERE <filter>),
//	     vals AS (SELECT ... UNION ALL SELECT ...)
//	INSERT INTO events (...) SELECT vals.* FROM context, vals WHERE COALESCE(max_seq, 0) = <expected>
//
// so the guard and the insert run in one statement.
func (j *Journal) buildAppendQuery(
	events journal.StoredEvents,
	filter journal.Filter,
	expectedMaxSequenceNumber journal.SequenceNumber,
) (string, error) {

	builder := goqu.Dialect(dialectPostgres)

	whereClause, err := buildWhereClause(filter)
	if err != nil {
		return "", err
	}

	cteStmt := builder.
		From(j.eventTableName).
		Select(goqu.MAX(colSequenceNumber).As(aliasMaxSeq)).
		Where(whereClause)

	var valuesStmt *goqu.SelectDataset

	for _, event := range events {
		row := builder.Select(
			goqu.L(castText, event.EventType).As(colEventType),
			goqu.L(castTimestamp, event.OccurredAt).As(colOccurredAt),
			goqu.L(castJsonb, string(event.PayloadJSON)).As(colPayload),
			goqu.L(castJsonb, string(event.MetadataJSON)).As(colMetadata),
		)

		if valuesStmt == nil {
			valuesStmt = row
			continue
		}

		valuesStmt = valuesStmt.UnionAll(row)
	}

	insertStmt := builder.
		Insert(j.eventTableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		With(cteContext, cteStmt).
		With(cteVals, valuesStmt).
		FromQuery(
			builder.From(cteContext, cteVals).
				Select(
					goqu.T(cteVals).Col(colEventType),
					goqu.T(cteVals).Col(colOccurredAt),
					goqu.T(cteVals).Col(colPayload),
					goqu.T(cteVals).Col(colMetadata),
				).
				Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(expectedMaxSequenceNumber)),
		)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(journal.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// buildWhereClause translates the filter's clauses and time range.
// Payload predicates become JSONB containment checks so the GIN index on payload applies.
func buildWhereClause(filter journal.Filter) (exp.Expression, error) {
	clauseExpressions := make([]exp.Expression, 0, len(filter.Clauses()))

	for _, clause := range filter.Clauses() {
		parts := make([]exp.Expression, 0, 2)

		if len(clause.EventTypes()) > 0 {
			parts = append(parts, goqu.C(colEventType).In(clause.EventTypes()))
		}

		predicateExpressions := make([]exp.Expression, 0, len(clause.Predicates()))
		for _, predicate := range clause.Predicates() {
			containment, err := jsoniter.ConfigFastest.Marshal(map[string]string{predicate.Key(): predicate.Val()})
			if err != nil {
				return nil, errors.Join(journal.ErrBuildingQueryFailed, err)
			}

			predicateExpressions = append(predicateExpressions, goqu.L(payloadContains, string(containment)))
		}

		if len(predicateExpressions) > 0 {
			if clause.AllPredicatesMustMatch() {
				parts = append(parts, goqu.And(predicateExpressions...))
			} else {
				parts = append(parts, goqu.Or(predicateExpressions...))
			}
		}

		clauseExpressions = append(clauseExpressions, goqu.And(parts...))
	}

	rangeExpressions := make([]exp.Expression, 0, 2)

	if !filter.OccurredFrom().IsZero() {
		rangeExpressions = append(rangeExpressions, goqu.C(colOccurredAt).Gte(filter.OccurredFrom()))
	}

	if !filter.OccurredUntil().IsZero() {
		rangeExpressions = append(rangeExpressions, goqu.C(colOccurredAt).Lte(filter.OccurredUntil()))
	}

	return goqu.And(goqu.Or(clauseExpressions...), goqu.And(rangeExpressions...)), nil
}

func (j *Journal) closeRows(ctx context.Context, rows adapters.DBRows) {
	if err := rows.Close(); err != nil {
		j.logWarn(ctx, logMsgCloseRowsFailed, err)
	}
}
