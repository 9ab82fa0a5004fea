package shell

import (
	"context"
	"errors"
	"time"

	"github.com/AntonStoeckl/lending-ledger-go/circulation/core"
	"github.com/AntonStoeckl/lending-ledger-go/journal"
	"github.com/AntonStoeckl/lending-ledger-go/ledger"
)

// decision runs one engine operation and returns the event to journal.
// A nil event with an error means the rejection is not journaled.
type decision func(engine *ledger.Engine, now time.Time) (core.DomainEvent, error)

// AddItem adds an item to the catalog.
func (d *Desk) AddItem(ctx context.Context, title, author string, itemID ledger.ItemID) error {
	return d.execute(ctx, OperationAddItem, func(engine *ledger.Engine, now time.Time) (core.DomainEvent, error) {
		if err := engine.AddItem(title, author, itemID); err != nil {
			return nil, err
		}

		return core.BuildItemAddedToCatalog(itemID, title, author, now), nil
	})
}

// RemoveItem removes an available item from the catalog.
func (d *Desk) RemoveItem(ctx context.Context, itemID ledger.ItemID) error {
	return d.execute(ctx, OperationRemoveItem, func(engine *ledger.Engine, now time.Time) (core.DomainEvent, error) {
		if err := engine.RemoveItem(itemID); err != nil {
			return nil, err
		}

		return core.BuildItemRemovedFromCatalog(itemID, now), nil
	})
}

// RegisterMember adds a member to the roster.
func (d *Desk) RegisterMember(ctx context.Context, name string, memberID ledger.MemberID) error {
	return d.execute(ctx, OperationRegisterMember, func(engine *ledger.Engine, now time.Time) (core.DomainEvent, error) {
		if err := engine.RegisterMember(name, memberID); err != nil {
			return nil, err
		}

		return core.BuildMemberRegistered(memberID, name, now), nil
	})
}

// Issue lends an item to a member. A refused issue is journaled as IssuingItemFailed
// and the ledger error is returned.
func (d *Desk) Issue(ctx context.Context, itemID ledger.ItemID, memberID ledger.MemberID) (ledger.IssuedReceipt, error) {
	var receipt ledger.IssuedReceipt

	err := d.execute(ctx, OperationIssue, func(engine *ledger.Engine, now time.Time) (core.DomainEvent, error) {
		var err error

		receipt, err = engine.Issue(itemID, memberID)
		if err != nil {
			return core.BuildIssuingItemFailed(itemID, memberID, err.Error(), now), err
		}

		return core.BuildItemIssuedToMember(itemID, memberID, now), nil
	})

	return receipt, err
}

// ReturnItem takes an item back from a member. The late fee is assessed once and recorded in the event.
func (d *Desk) ReturnItem(ctx context.Context, itemID ledger.ItemID, memberID ledger.MemberID) (ledger.ReturnReceipt, error) {
	var receipt ledger.ReturnReceipt

	err := d.execute(ctx, OperationReturn, func(engine *ledger.Engine, now time.Time) (core.DomainEvent, error) {
		var err error

		receipt, err = engine.ReturnItem(itemID, memberID)
		if err != nil {
			return core.BuildReturningItemFailed(itemID, memberID, err.Error(), now), err
		}

		return core.BuildItemReturnedByMember(itemID, memberID, receipt.LateFee, now), nil
	})

	return receipt, err
}

// PayFees applies a payment to a member's balance.
func (d *Desk) PayFees(ctx context.Context, memberID ledger.MemberID, amount ledger.FeeAmount) (ledger.PaymentReceipt, error) {
	var receipt ledger.PaymentReceipt

	err := d.execute(ctx, OperationPayFees, func(engine *ledger.Engine, now time.Time) (core.DomainEvent, error) {
		var err error

		receipt, err = engine.PayFees(memberID, amount)
		if err != nil {
			return core.BuildPayingFeesFailed(memberID, amount, err.Error(), now), err
		}

		return core.BuildFeesPaid(memberID, receipt.Requested, receipt.Applied, now), nil
	})

	return receipt, err
}

// FindItem looks up an item by identifier.
func (d *Desk) FindItem(itemID ledger.ItemID) (ledger.ItemView, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.engine.FindItem(itemID)
}

// FindMember looks up a member by identifier.
func (d *Desk) FindMember(memberID ledger.MemberID) (ledger.MemberView, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.engine.FindMember(memberID)
}

func (d *Desk) Statistics() ledger.Stats {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.engine.Statistics()
}

func (d *Desk) ListAvailable() []ledger.ItemView {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.engine.ListAvailable()
}

func (d *Desk) ListBorrowed() []ledger.LoanView {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.engine.ListBorrowed()
}

func (d *Desk) ListMembers() []ledger.MemberView {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.engine.ListMembers()
}

// Snapshot captures the ledger state the desk currently holds.
func (d *Desk) Snapshot() ledger.Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.engine.Snapshot()
}

// execute runs decide against the engine and journals the resulting event, guarded by the desk's
// position. On a concurrency conflict the engine is rolled back, the foreign events are applied
// and decide runs again.
func (d *Desk) execute(ctx context.Context, operation string, decide decision) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	start := time.Now()

	retryOptions := d.retryOptions
	if d.metricsCollector != nil {
		retryOptions = append(retryOptions[:len(retryOptions):len(retryOptions)], WithRetryMetrics(d.metricsCollector, operation))
	}

	var businessErr error

	metrics, err := RetryWithExponentialBackoff(ctx, func(ctx context.Context) error {
		businessErr = nil

		if d.stale {
			if err := d.reload(ctx); err != nil {
				return err
			}
		}

		checkpoint := d.engine.Snapshot()

		var event core.DomainEvent
		event, businessErr = decide(d.engine, d.clock())

		if event == nil {
			return nil
		}

		appendErr := d.record(ctx, event)
		if appendErr == nil {
			return nil
		}

		d.rollback(checkpoint)

		if errors.Is(appendErr, journal.ErrConcurrencyConflict) {
			if catchUpErr := d.catchUp(ctx); catchUpErr != nil {
				return catchUpErr
			}
		}

		return appendErr
	}, retryOptions...)

	duration := time.Since(start)

	switch {
	case err != nil:
		d.recordOperation(operation, StatusError, duration, metrics, err)
		return err
	case businessErr != nil:
		d.recordOperation(operation, StatusRejected, duration, metrics, businessErr)
		return businessErr
	default:
		d.recordOperation(operation, StatusSuccess, duration, metrics, nil)
		return nil
	}
}

// record appends the event and advances the desk's position to it.
func (d *Desk) record(ctx context.Context, event core.DomainEvent) error {
	metadata, err := newEventMetadata(ctx)
	if err != nil {
		return err
	}

	storedEvent, err := StoredEventFrom(event, metadata)
	if err != nil {
		return err
	}

	if err := d.journal.Append(ctx, journal.MatchAnyEvent(), d.position, storedEvent); err != nil {
		return err
	}

	// sequence numbers may have gaps, so the new position has to be read back
	position, err := d.locate(ctx, metadata.MessageID)
	if err != nil {
		// the event is journaled and the engine already reflects it, only the position is unknown
		d.logWarn(logMsgAppendedNotFound, logAttrError, err.Error())
		d.stale = true

		return nil
	}

	d.position = position

	return nil
}

func (d *Desk) locate(ctx context.Context, messageID MessageID) (journal.SequenceNumber, error) {
	storedEvents, _, err := d.journal.Query(ctx, journal.MatchAnyEvent().After(d.position))
	if err != nil {
		return 0, err
	}

	if len(storedEvents) == 0 {
		return 0, ErrAppendedEventNotFound
	}

	metadata, err := EventMetadataFrom(storedEvents[0])
	if err != nil {
		return 0, err
	}

	if metadata.MessageID != messageID {
		return 0, ErrAppendedEventNotFound
	}

	return storedEvents[0].SequenceNumber, nil
}

// rollback restores the engine to the state before a failed append.
func (d *Desk) rollback(checkpoint ledger.Snapshot) {
	engine, err := ledger.Restore(checkpoint, d.engineOptions...)
	if err != nil {
		d.logError(logMsgRollbackFailed, err)
		d.stale = true

		return
	}

	d.engine = engine
}
