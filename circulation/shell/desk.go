package shell

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/AntonStoeckl/lending-ledger-go/circulation/core"
	"github.com/AntonStoeckl/lending-ledger-go/journal"
	"github.com/AntonStoeckl/lending-ledger-go/ledger"
)

// DefaultSnapshotName is the journal snapshot the desk checkpoints to.
const DefaultSnapshotName = "ledger"

// Desk serializes access to one ledger engine and journals every outcome.
//
// The whole ledger is one consistency boundary: every append is guarded by the position
// of the newest journal event the desk has applied. When another desk got there first,
// the append fails with a concurrency conflict, the desk rolls its engine back, applies
// the foreign events and runs the operation again.
type Desk struct {
	mu               sync.Mutex
	journal          Journal
	engine           *ledger.Engine
	engineOptions    []ledger.Option
	position         journal.SequenceNumber
	stale            bool
	clock            func() time.Time
	snapshotName     string
	retryOptions     []RetryOption
	logger           Logger
	metricsCollector MetricsCollector
}

// Option defines a functional option for configuring a Desk.
type Option func(*Desk) error

// WithEngineOptions passes options to every engine the desk builds, e.g. a LateFeePolicy.
func WithEngineOptions(options ...ledger.Option) Option {
	return func(d *Desk) error {
		d.engineOptions = append(d.engineOptions, options...)
		return nil
	}
}

// WithClock sets the time source for event timestamps and return events.
func WithClock(clock func() time.Time) Option {
	return func(d *Desk) error {
		if clock == nil {
			return ErrNilClock
		}

		d.clock = clock

		return nil
	}
}

// WithSnapshotName sets the name under which Checkpoint stores the ledger snapshot.
func WithSnapshotName(name string) Option {
	return func(d *Desk) error {
		if name == "" {
			return ErrEmptySnapshotName
		}

		d.snapshotName = name

		return nil
	}
}

// WithRetryOptions tunes the retry on concurrency conflicts.
func WithRetryOptions(options ...RetryOption) Option {
	return func(d *Desk) error {
		d.retryOptions = append(d.retryOptions, options...)
		return nil
	}
}

// WithLogger sets the logger for the Desk.
func WithLogger(logger Logger) Option {
	return func(d *Desk) error {
		d.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Desk. Retries are instrumented as well.
func WithMetrics(collector MetricsCollector) Option {
	return func(d *Desk) error {
		d.metricsCollector = collector
		return nil
	}
}

// OpenDesk restores the ledger from the newest checkpoint in the journal and
// replays the events recorded after it.
func OpenDesk(ctx context.Context, j Journal, options ...Option) (*Desk, error) {
	if j == nil {
		return nil, ErrNilJournal
	}

	d := &Desk{
		journal:      j,
		clock:        time.Now,
		snapshotName: DefaultSnapshotName,
	}

	for _, option := range options {
		if err := option(d); err != nil {
			return nil, err
		}
	}

	// the desk's clock goes first so explicit engine options can still override it
	d.engineOptions = append([]ledger.Option{ledger.WithClock(d.clock)}, d.engineOptions...)

	if err := d.reload(ctx); err != nil {
		return nil, err
	}

	d.logInfo(logMsgDeskOpened, logAttrPosition, d.position)

	return d, nil
}

// Position returns the sequence number of the newest journal event applied to the ledger.
func (d *Desk) Position() journal.SequenceNumber {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.position
}

// Refresh applies events that other desks appended since the last operation.
func (d *Desk) Refresh(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stale {
		return d.reload(ctx)
	}

	return d.catchUp(ctx)
}

// Checkpoint stores the current ledger state in the journal, so OpenDesk only has to
// replay the events recorded afterwards.
func (d *Desk) Checkpoint(ctx context.Context) (journal.SequenceNumber, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stale {
		if err := d.reload(ctx); err != nil {
			return 0, err
		}
	}

	data, err := json.Marshal(d.engine.Snapshot())
	if err != nil {
		return 0, errors.Join(ErrEncodingSnapshotFailed, err)
	}

	record, err := journal.BuildSnapshotRecord(d.snapshotName, d.position, data, d.clock())
	if err != nil {
		return 0, errors.Join(ErrEncodingSnapshotFailed, err)
	}

	if err := d.journal.SaveSnapshot(ctx, record); err != nil {
		d.logError(logMsgCheckpointFailed, err)

		return 0, err
	}

	d.logInfo(logMsgCheckpointSaved, logAttrPosition, d.position)

	return d.position, nil
}

// MemberHistory returns every journal event that concerns the member, failures included, in journal order.
func (d *Desk) MemberHistory(ctx context.Context, memberID ledger.MemberID) (core.DomainEvents, error) {
	return d.history(ctx, journal.P(core.MemberIDField, memberID))
}

// ItemHistory returns every journal event that concerns the item, failures included, in journal order.
func (d *Desk) ItemHistory(ctx context.Context, itemID ledger.ItemID) (core.DomainEvents, error) {
	return d.history(ctx, journal.P(core.ItemIDField, itemID))
}

func (d *Desk) history(ctx context.Context, predicate journal.Predicate) (core.DomainEvents, error) {
	filter := journal.Match(core.AllEventTypes()...).WhereAny(predicate).Build()

	storedEvents, _, err := d.journal.Query(ctx, filter)
	if err != nil {
		return nil, err
	}

	return DomainEventsFrom(storedEvents)
}

// reload rebuilds the engine from the checkpoint and all newer events.
func (d *Desk) reload(ctx context.Context) error {
	base, position, err := d.loadCheckpoint(ctx)
	if err != nil {
		return err
	}

	engine, position, err := d.replayAfter(ctx, base, position)
	if err != nil {
		return err
	}

	d.engine = engine
	d.position = position
	d.stale = false

	return nil
}

// catchUp applies the events recorded after the desk's position.
func (d *Desk) catchUp(ctx context.Context) error {
	engine, position, err := d.replayAfter(ctx, d.engine.Snapshot(), d.position)
	if err != nil {
		return err
	}

	if position != d.position {
		d.logInfo(logMsgCaughtUp, logAttrFrom, d.position, logAttrPosition, position)
	}

	d.engine = engine
	d.position = position

	return nil
}

func (d *Desk) loadCheckpoint(ctx context.Context) (ledger.Snapshot, journal.SequenceNumber, error) {
	record, err := d.journal.LoadSnapshot(ctx, d.snapshotName)
	if errors.Is(err, journal.ErrSnapshotNotFound) {
		return ledger.Snapshot{}, 0, nil
	}

	if err != nil {
		return ledger.Snapshot{}, 0, err
	}

	snapshot := ledger.Snapshot{}
	if err := json.Unmarshal(record.Data, &snapshot); err != nil {
		return ledger.Snapshot{}, 0, errors.Join(ErrDecodingSnapshotFailed, err)
	}

	return snapshot, record.SequenceNumber, nil
}

func (d *Desk) replayAfter(
	ctx context.Context,
	base ledger.Snapshot,
	after journal.SequenceNumber,
) (*ledger.Engine, journal.SequenceNumber, error) {

	storedEvents, position, err := d.journal.Query(ctx, journal.MatchAnyEvent().After(after))
	if err != nil {
		return nil, 0, errors.Join(ErrCatchingUpFailed, err)
	}

	domainEvents, err := DomainEventsFrom(storedEvents)
	if err != nil {
		return nil, 0, errors.Join(ErrCatchingUpFailed, err)
	}

	snapshot, err := Replay(base, domainEvents)
	if err != nil {
		return nil, 0, err
	}

	engine, err := ledger.Restore(snapshot, d.engineOptions...)
	if err != nil {
		return nil, 0, errors.Join(ErrReplayFailed, err)
	}

	return engine, position, nil
}
