package ledger

import (
	"errors"
	"fmt"
)

// ItemRecord is the serializable state of an Item.
type ItemRecord struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	ID        ItemID `json:"id"`
	Available bool   `json:"available"`
}

// MemberRecord is the serializable state of a Member.
type MemberRecord struct {
	Name            string    `json:"name"`
	ID              MemberID  `json:"id"`
	HeldItemIDs     []ItemID  `json:"heldItemIds"`
	OutstandingFees FeeAmount `json:"outstandingFees"`
}

// Snapshot captures the complete state of an Engine in registration order.
type Snapshot struct {
	Items                 []ItemRecord   `json:"items"`
	Members               []MemberRecord `json:"members"`
	LifetimeFeesCollected FeeAmount      `json:"lifetimeFeesCollected"`
}

// Snapshot captures the current state.
func (e *Engine) Snapshot() Snapshot {
	snapshot := Snapshot{
		Items:                 make([]ItemRecord, 0, e.catalog.Len()),
		Members:               make([]MemberRecord, 0, e.roster.Len()),
		LifetimeFeesCollected: e.lifetimeFeesCollected,
	}

	for _, item := range e.catalog.All() {
		snapshot.Items = append(snapshot.Items, ItemRecord{
			Title:     item.title,
			Author:    item.author,
			ID:        item.id,
			Available: item.available,
		})
	}

	for _, member := range e.roster.All() {
		view := member.View()
		snapshot.Members = append(snapshot.Members, MemberRecord{
			Name:            view.Name,
			ID:              view.ID,
			HeldItemIDs:     view.HeldItemIDs,
			OutstandingFees: view.OutstandingFees,
		})
	}

	return snapshot
}

// Restore builds an Engine from a Snapshot, configured with the given options.
// Every invariant of the ledger is validated; a violation fails with ErrInvalidSnapshot.
func Restore(snapshot Snapshot, options ...Option) (*Engine, error) {
	e, err := NewEngine(options...)
	if err != nil {
		return nil, err
	}

	if !(snapshot.LifetimeFeesCollected >= 0) {
		return nil, invalidSnapshot("lifetime fees collected must not be negative")
	}

	e.lifetimeFeesCollected = snapshot.LifetimeFeesCollected

	for _, record := range snapshot.Items {
		if addErr := e.catalog.Add(record.Title, record.Author, record.ID); addErr != nil {
			return nil, errors.Join(ErrInvalidSnapshot, addErr)
		}
	}

	for _, record := range snapshot.Members {
		if restoreErr := e.restoreMember(record); restoreErr != nil {
			return nil, restoreErr
		}
	}

	for _, record := range snapshot.Items {
		item, _ := e.catalog.Find(record.ID)
		_, held := e.holders[record.ID]

		if record.Available && held {
			return nil, invalidSnapshot(fmt.Sprintf("item %s is available but held", record.ID))
		}

		if !record.Available && !held {
			return nil, invalidSnapshot(fmt.Sprintf("item %s is on loan but not held by any member", record.ID))
		}

		item.available = record.Available
	}

	return e, nil
}

func (e *Engine) restoreMember(record MemberRecord) error {
	if err := e.roster.Register(record.Name, record.ID); err != nil {
		return errors.Join(ErrInvalidSnapshot, err)
	}

	if !(record.OutstandingFees >= 0) {
		return invalidSnapshot(fmt.Sprintf("member %s has negative fees", record.ID))
	}

	if len(record.HeldItemIDs) > MaxHeldItems {
		return invalidSnapshot(fmt.Sprintf("member %s holds more than %d items", record.ID, MaxHeldItems))
	}

	member, _ := e.roster.Find(record.ID)
	member.outstandingFees = record.OutstandingFees

	for _, itemID := range record.HeldItemIDs {
		item, found := e.catalog.Find(itemID)
		if !found {
			return invalidSnapshot(fmt.Sprintf("member %s holds unknown item %s", record.ID, itemID))
		}

		if holderID, held := e.holders[itemID]; held {
			return invalidSnapshot(fmt.Sprintf("item %s is held by %s and %s", itemID, holderID, record.ID))
		}

		member.borrow(item)
		e.holders[itemID] = member.id
	}

	return nil
}

func invalidSnapshot(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidSnapshot, reason)
}
