// Package memjournal provides an in-memory journal with the same append and query
// semantics as the Postgres journal. It backs the demo command and tests.
package memjournal

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/AntonStoeckl/lending-ledger-go/journal"
)

const (
	logMsgEventsAppended      = "journal operation: events appended"
	logMsgConcurrencyConflict = "journal operation: concurrency conflict detected"
	logAttrEventCount         = "event_count"
	logAttrExpectedSequence   = "expected_sequence"
	logAttrActualSequence     = "actual_sequence"
)

// Journal keeps events and snapshots in memory. It is safe for concurrent use.
type Journal struct {
	mu        sync.RWMutex
	events    journal.StoredEvents
	snapshots map[string]journal.SnapshotRecord
	logger    journal.Logger
}

// Option defines a functional option for configuring Journal.
type Option func(*Journal) error

// WithLogger sets the logger for the Journal.
func WithLogger(logger journal.Logger) Option {
	return func(j *Journal) error {
		j.logger = logger
		return nil
	}
}

// New creates an empty Journal.
func New(options ...Option) (*Journal, error) {
	j := &Journal{
		events:    make(journal.StoredEvents, 0),
		snapshots: make(map[string]journal.SnapshotRecord),
	}

	for _, option := range options {
		if err := option(j); err != nil {
			return nil, err
		}
	}

	return j, nil
}

// Query returns the matching events in journal order and the highest sequence number among them.
// With an After bound and no newer events, the bound itself is returned.
func (j *Journal) Query(ctx context.Context, filter journal.Filter) (journal.StoredEvents, journal.SequenceNumber, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	matching := make(journal.StoredEvents, 0)
	maxSequenceNumber := filter.AfterSequence()

	for _, event := range j.events {
		if filter.Matches(event) {
			matching = append(matching, event)
			maxSequenceNumber = event.SequenceNumber
		}
	}

	return matching, maxSequenceNumber, nil
}

// Append stores the events atomically if the newest event matching the filter still has
// the expected sequence number; otherwise it returns journal.ErrConcurrencyConflict.
func (j *Journal) Append(
	ctx context.Context,
	filter journal.Filter,
	expectedMaxSequenceNumber journal.SequenceNumber,
	event journal.StoredEvent,
	additionalEvents ...journal.StoredEvent,
) error {

	if err := ctx.Err(); err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	guard := filter.WithoutSequenceBound()
	actual := journal.SequenceNumber(0)

	for _, stored := range j.events {
		if guard.Matches(stored) {
			actual = stored.SequenceNumber
		}
	}

	if actual != expectedMaxSequenceNumber {
		if j.logger != nil {
			j.logger.Info(
				logMsgConcurrencyConflict,
				logAttrExpectedSequence, expectedMaxSequenceNumber,
				logAttrActualSequence, actual,
			)
		}

		return journal.ErrConcurrencyConflict
	}

	next := journal.SequenceNumber(len(j.events))
	for _, e := range append([]journal.StoredEvent{event}, additionalEvents...) {
		next++
		j.events = append(j.events, e.WithSequenceNumber(next))
	}

	if j.logger != nil {
		j.logger.Info(logMsgEventsAppended, logAttrEventCount, 1+len(additionalEvents))
	}

	return nil
}

// SaveSnapshot stores or replaces the snapshot with the record's name.
func (j *Journal) SaveSnapshot(ctx context.Context, record journal.SnapshotRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := record.Validate(); err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	record.Data = slices.Clone(record.Data)
	j.snapshots[record.Name] = record

	return nil
}

// LoadSnapshot returns journal.ErrSnapshotNotFound if no snapshot with that name exists.
func (j *Journal) LoadSnapshot(ctx context.Context, name string) (journal.SnapshotRecord, error) {
	if err := ctx.Err(); err != nil {
		return journal.SnapshotRecord{}, err
	}

	if name == "" {
		return journal.SnapshotRecord{}, journal.ErrEmptySnapshotName
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	record, ok := j.snapshots[name]
	if !ok {
		return journal.SnapshotRecord{}, journal.ErrSnapshotNotFound
	}

	record.Data = slices.Clone(record.Data)

	return record, nil
}

// DeleteSnapshot removes the snapshot. Deleting a missing snapshot is not an error.
func (j *Journal) DeleteSnapshot(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if name == "" {
		return journal.ErrEmptySnapshotName
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.snapshots, name)

	return nil
}

// Len returns the number of stored events.
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()

	return len(j.events)
}
