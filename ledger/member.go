package ledger

import (
	"fmt"
	"slices"
)

// Member is a registered patron eligible to borrow items.
// The held-set keeps borrow order and never contains duplicates.
type Member struct {
	name            string
	id              MemberID
	heldItems       []*Item
	outstandingFees FeeAmount
}

func newMember(name string, id MemberID) *Member {
	return &Member{
		name:      name,
		id:        id,
		heldItems: make([]*Item, 0, MaxHeldItems),
	}
}

// Name returns the display name.
func (m *Member) Name() string { return m.name }

// ID returns the identifier.
func (m *Member) ID() MemberID { return m.id }

// OutstandingFees returns the unpaid balance.
func (m *Member) OutstandingFees() FeeAmount { return m.outstandingFees }

// HeldCount returns the number of items currently borrowed.
func (m *Member) HeldCount() int { return len(m.heldItems) }

// Holds reports whether the item is in this member's held-set.
func (m *Member) Holds(itemID ItemID) bool {
	return slices.ContainsFunc(m.heldItems, func(i *Item) bool { return i.id == itemID })
}

// View returns a detached copy of the member's current state.
func (m *Member) View() MemberView {
	held := make([]ItemID, 0, len(m.heldItems))
	for _, item := range m.heldItems {
		held = append(held, item.id)
	}

	return MemberView{
		Name:            m.name,
		ID:              m.id,
		HeldItemIDs:     held,
		OutstandingFees: m.outstandingFees,
	}
}

func (m *Member) borrow(item *Item) {
	m.heldItems = append(m.heldItems, item)
}

func (m *Member) release(item *Item) {
	m.heldItems = slices.DeleteFunc(m.heldItems, func(i *Item) bool { return i == item })
}

func (m *Member) addFee(amount FeeAmount) {
	m.outstandingFees += amount
}

// payFee subtracts at most the outstanding balance and returns what was applied.
func (m *Member) payFee(amount FeeAmount) FeeAmount {
	if amount >= m.outstandingFees {
		applied := m.outstandingFees
		m.outstandingFees = 0
		return applied
	}

	m.outstandingFees -= amount

	return amount
}

// MemberView is a read-only copy of a Member.
type MemberView struct {
	Name            string
	ID              MemberID
	HeldItemIDs     []ItemID
	OutstandingFees FeeAmount
}

// String renders the member the way reports list patrons.
func (v MemberView) String() string {
	return fmt.Sprintf("%s (ID: %s) - Borrowed: %d books, Fees: %.2f", v.Name, v.ID, len(v.HeldItemIDs), v.OutstandingFees)
}
