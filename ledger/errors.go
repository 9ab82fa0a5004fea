package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateIdentifier is returned by add and register when the identifier already exists.
	ErrDuplicateIdentifier = errors.New("duplicate identifier")

	// ErrNotFound is the common kind of ErrItemNotFound and ErrMemberNotFound.
	ErrNotFound = errors.New("not found")

	// ErrItemNotFound is returned when no item with the given identifier is in the catalog.
	ErrItemNotFound = fmt.Errorf("item %w", ErrNotFound)

	// ErrMemberNotFound is returned when no member with the given identifier is in the roster.
	ErrMemberNotFound = fmt.Errorf("member %w", ErrNotFound)

	// ErrItemOnLoan is returned when removing an item that is currently borrowed.
	ErrItemOnLoan = errors.New("item is on loan")

	// ErrItemUnavailable is returned when issuing an item that is already on loan.
	ErrItemUnavailable = errors.New("item is unavailable")

	// ErrBorrowLimitReached is returned when the member already holds MaxHeldItems items.
	ErrBorrowLimitReached = errors.New("borrow limit reached")

	// ErrFeesOwed is returned when the member has a positive outstanding balance.
	ErrFeesOwed = errors.New("fees owed")

	// ErrNotBorrowedByMember is returned when returning an item the member doesn't hold.
	ErrNotBorrowedByMember = errors.New("item is not borrowed by member")

	// ErrNonPositiveAmount is returned when a payment amount is zero or negative.
	ErrNonPositiveAmount = errors.New("amount must be positive")

	// ErrInvalidSnapshot is returned when a snapshot violates an invariant of the ledger.
	ErrInvalidSnapshot = errors.New("snapshot is not valid")

	// ErrNilLateFeePolicy is returned when a nil policy is supplied to WithLateFeePolicy.
	ErrNilLateFeePolicy = errors.New("late fee policy must not be nil")

	// ErrNilClock is returned when a nil clock is supplied to WithClock.
	ErrNilClock = errors.New("clock must not be nil")
)

// FeesOwedError reports the outstanding balance that blocked an issue.
// It matches ErrFeesOwed with errors.Is.
type FeesOwedError struct {
	MemberID MemberID
	Amount   FeeAmount
}

func (e *FeesOwedError) Error() string {
	return fmt.Sprintf("%s: member %s owes %.2f", ErrFeesOwed.Error(), e.MemberID, e.Amount)
}

// Unwrap returns ErrFeesOwed.
func (e *FeesOwedError) Unwrap() error {
	return ErrFeesOwed
}

func itemNotFound(itemID ItemID) error {
	return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
}

func memberNotFound(memberID MemberID) error {
	return fmt.Errorf("%w: %s", ErrMemberNotFound, memberID)
}

func duplicateIdentifier(kind string, id string) error {
	return fmt.Errorf("%w: %s %s", ErrDuplicateIdentifier, kind, id)
}
