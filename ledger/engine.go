package ledger

import (
	"time"
)

// Engine is the lending and fee-accounting engine. It owns a Catalog, a Roster, the secondary
// index from items on loan to their holders, and the lifetime fees collected counter.
//
// The availability flag of an item and the held-set of its holder are only ever changed
// together, by Issue and ReturnItem.
type Engine struct {
	catalog               *Catalog
	roster                *Roster
	holders               map[ItemID]MemberID
	lifetimeFeesCollected FeeAmount
	lateFeePolicy         LateFeePolicy
	clock                 func() time.Time
	logger                Logger
	metricsCollector      MetricsCollector
}

// NewEngine creates an empty Engine with optional configuration.
// Without WithLateFeePolicy the PlaceholderLateFeePolicy is used.
func NewEngine(options ...Option) (*Engine, error) {
	e := &Engine{
		catalog:       NewCatalog(),
		roster:        NewRoster(),
		holders:       make(map[ItemID]MemberID),
		lateFeePolicy: PlaceholderLateFeePolicy(),
		clock:         time.Now,
	}

	for _, option := range options {
		if err := option(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// AddItem adds a new, available item to the catalog.
func (e *Engine) AddItem(title, author string, itemID ItemID) error {
	if err := e.catalog.Add(title, author, itemID); err != nil {
		return e.recordRejection(operationAddItem, err, logAttrItemID, itemID)
	}

	e.recordSuccess(operationAddItem, logAttrItemID, itemID)

	return nil
}

// RemoveItem removes an item from the catalog. Items on loan can't be removed.
func (e *Engine) RemoveItem(itemID ItemID) error {
	if err := e.catalog.Remove(itemID); err != nil {
		return e.recordRejection(operationRemoveItem, err, logAttrItemID, itemID)
	}

	e.recordSuccess(operationRemoveItem, logAttrItemID, itemID)

	return nil
}

// RegisterMember adds a new member with an empty held-set and no fees to the roster.
func (e *Engine) RegisterMember(name string, memberID MemberID) error {
	if err := e.roster.Register(name, memberID); err != nil {
		return e.recordRejection(operationRegister, err, logAttrMemberID, memberID)
	}

	e.recordSuccess(operationRegister, logAttrMemberID, memberID)

	return nil
}

// Issue lends an item to a member.
//
// Preconditions are checked in this fixed order, the first failing one wins:
//
//	ErrItemNotFound        the item is not in the catalog
//	ErrMemberNotFound      the member is not in the roster
//	ErrItemUnavailable     the item is on loan
//	ErrBorrowLimitReached  the member already holds MaxHeldItems items
//	ErrFeesOwed            the member has an outstanding balance (as *FeesOwedError)
//
// Nothing is mutated when a check fails.
func (e *Engine) Issue(itemID ItemID, memberID MemberID) (IssuedReceipt, error) {
	item, member, err := e.lookup(itemID, memberID)
	if err != nil {
		return IssuedReceipt{}, e.recordRejection(operationIssue, err, logAttrItemID, itemID, logAttrMemberID, memberID)
	}

	if err = e.checkIssuable(item, member); err != nil {
		return IssuedReceipt{}, e.recordRejection(operationIssue, err, logAttrItemID, itemID, logAttrMemberID, memberID)
	}

	item.available = false
	member.borrow(item)
	e.holders[item.id] = member.id

	e.recordSuccess(operationIssue, logAttrItemID, itemID, logAttrMemberID, memberID)

	return IssuedReceipt{Item: item.View(), Member: member.View()}, nil
}

func (e *Engine) checkIssuable(item *Item, member *Member) error {
	if !item.available {
		return ErrItemUnavailable
	}

	if member.HeldCount() >= MaxHeldItems {
		return ErrBorrowLimitReached
	}

	if member.outstandingFees > 0 {
		return &FeesOwedError{MemberID: member.id, Amount: member.outstandingFees}
	}

	return nil
}

// ReturnItem takes an item back from the member holding it and assesses a late fee
// through the configured LateFeePolicy. A positive fee is added to the member's balance.
//
// It fails with ErrItemNotFound or ErrMemberNotFound (both match ErrNotFound) and with
// ErrNotBorrowedByMember if the member doesn't hold the item. Nothing is mutated on failure.
func (e *Engine) ReturnItem(itemID ItemID, memberID MemberID) (ReturnReceipt, error) {
	item, member, err := e.lookup(itemID, memberID)
	if err != nil {
		return ReturnReceipt{}, e.recordRejection(operationReturn, err, logAttrItemID, itemID, logAttrMemberID, memberID)
	}

	if !member.Holds(itemID) {
		return ReturnReceipt{}, e.recordRejection(operationReturn, ErrNotBorrowedByMember, logAttrItemID, itemID, logAttrMemberID, memberID)
	}

	item.available = true
	member.release(item)
	delete(e.holders, item.id)

	fee := e.lateFeePolicy(ReturnEvent{Item: item.View(), MemberID: member.id, ReturnedAt: e.now()})
	if !(fee > 0) {
		fee = 0
	}

	if fee > 0 {
		member.addFee(fee)
		e.recordValue(metricLateFeeAssessed, fee, operationReturn)
	}

	e.recordSuccess(operationReturn, logAttrItemID, itemID, logAttrMemberID, memberID, logAttrLateFee, fee)

	return ReturnReceipt{Item: item.View(), Member: member.View(), LateFee: fee}, nil
}

// PayFees settles outstanding fees. The applied amount is capped at the open balance, so an
// overpayment is not an error; the excess is simply not applied.
func (e *Engine) PayFees(memberID MemberID, amount FeeAmount) (PaymentReceipt, error) {
	member, found := e.roster.Find(memberID)
	if !found {
		return PaymentReceipt{}, e.recordRejection(operationPayFees, memberNotFound(memberID), logAttrMemberID, memberID)
	}

	if !(amount > 0) {
		return PaymentReceipt{}, e.recordRejection(operationPayFees, ErrNonPositiveAmount, logAttrMemberID, memberID)
	}

	applied := member.payFee(amount)
	e.lifetimeFeesCollected += applied

	e.recordValue(metricPaymentApplied, applied, operationPayFees)
	e.recordSuccess(
		operationPayFees,
		logAttrMemberID, memberID,
		logAttrApplied, applied,
		logAttrRemaining, member.outstandingFees,
	)

	return PaymentReceipt{
		MemberID:  memberID,
		Requested: amount,
		Applied:   applied,
		Remaining: member.outstandingFees,
	}, nil
}

// FindItem looks up an item.
func (e *Engine) FindItem(itemID ItemID) (ItemView, bool) {
	item, found := e.catalog.Find(itemID)
	if !found {
		return ItemView{}, false
	}

	return item.View(), true
}

// FindMember looks up a member.
func (e *Engine) FindMember(memberID MemberID) (MemberView, bool) {
	member, found := e.roster.Find(memberID)
	if !found {
		return MemberView{}, false
	}

	return member.View(), true
}

// Statistics recomputes all aggregates from the current state.
func (e *Engine) Statistics() Stats {
	stats := Stats{
		TotalItems:            e.catalog.Len(),
		TotalMembers:          e.roster.Len(),
		LifetimeFeesCollected: e.lifetimeFeesCollected,
	}

	for _, item := range e.catalog.All() {
		if item.available {
			stats.AvailableItems++
		} else {
			stats.BorrowedItems++
		}
	}

	for _, member := range e.roster.All() {
		stats.CurrentOutstanding += member.outstandingFees
	}

	return stats
}

// ListAvailable returns the items on the shelf in registration order.
func (e *Engine) ListAvailable() []ItemView {
	available := make([]ItemView, 0)

	for _, item := range e.catalog.All() {
		if item.available {
			available = append(available, item.View())
		}
	}

	return available
}

// ListBorrowed returns the items on loan with their borrowers in registration order.
func (e *Engine) ListBorrowed() []LoanView {
	borrowed := make([]LoanView, 0)

	for _, item := range e.catalog.All() {
		if item.available {
			continue
		}

		loan := LoanView{Item: item.View(), BorrowerName: UnknownBorrower}

		if holderID, held := e.holders[item.id]; held {
			if holder, found := e.roster.Find(holderID); found {
				loan.BorrowerID = holder.id
				loan.BorrowerName = holder.name
			}
		}

		borrowed = append(borrowed, loan)
	}

	return borrowed
}

// ListMembers returns all members in registration order.
func (e *Engine) ListMembers() []MemberView {
	members := make([]MemberView, 0, e.roster.Len())

	for _, member := range e.roster.All() {
		members = append(members, member.View())
	}

	return members
}

// lookup resolves the item first and the member second, which fixes the error precedence.
func (e *Engine) lookup(itemID ItemID, memberID MemberID) (*Item, *Member, error) {
	item, found := e.catalog.Find(itemID)
	if !found {
		return nil, nil, itemNotFound(itemID)
	}

	member, found := e.roster.Find(memberID)
	if !found {
		return nil, nil, memberNotFound(memberID)
	}

	return item, member, nil
}
