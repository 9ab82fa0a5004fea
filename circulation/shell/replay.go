package shell

import (
	"errors"
	"fmt"

	"github.com/AntonStoeckl/lending-ledger-go/circulation/core"
	"github.com/AntonStoeckl/lending-ledger-go/ledger"
)

// Replay applies journal events to a ledger snapshot and returns the resulting snapshot.
//
// Replay is deterministic: returns reuse the late fee recorded in the event instead of
// asking a policy again, and payments must apply exactly the recorded amount.
// Failure events don't change state and are skipped.
func Replay(base ledger.Snapshot, events core.DomainEvents) (ledger.Snapshot, error) {
	var recordedFee ledger.FeeAmount

	engine, err := ledger.Restore(base, ledger.WithLateFeePolicy(func(ledger.ReturnEvent) ledger.FeeAmount {
		return recordedFee
	}))
	if err != nil {
		return ledger.Snapshot{}, errors.Join(ErrReplayFailed, err)
	}

	for _, event := range events {
		if err := apply(engine, event, &recordedFee); err != nil {
			return ledger.Snapshot{}, errors.Join(ErrReplayFailed, fmt.Errorf("%s: %w", event.IsEventType(), err))
		}
	}

	return engine.Snapshot(), nil
}

func apply(engine *ledger.Engine, event core.DomainEvent, recordedFee *ledger.FeeAmount) error {
	switch e := event.(type) {
	case core.ItemAddedToCatalog:
		return engine.AddItem(e.Title, e.Author, e.ItemID)

	case core.ItemRemovedFromCatalog:
		return engine.RemoveItem(e.ItemID)

	case core.MemberRegistered:
		return engine.RegisterMember(e.Name, e.MemberID)

	case core.ItemIssuedToMember:
		_, err := engine.Issue(e.ItemID, e.MemberID)
		return err

	case core.ItemReturnedByMember:
		*recordedFee = e.LateFee
		_, err := engine.ReturnItem(e.ItemID, e.MemberID)
		return err

	case core.FeesPaid:
		receipt, err := engine.PayFees(e.MemberID, e.Requested)
		if err != nil {
			return err
		}

		if receipt.Applied != e.Applied {
			return fmt.Errorf("%w: applied %.2f, recorded %.2f", ErrReplayDiverged, receipt.Applied, e.Applied)
		}

		return nil

	case core.IssuingItemFailed, core.ReturningItemFailed, core.PayingFeesFailed:
		return nil

	default:
		return ErrMappingToDomainEventUnknownEventType
	}
}
