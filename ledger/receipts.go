package ledger

// IssuedReceipt describes a successful issue.
type IssuedReceipt struct {
	Item   ItemView
	Member MemberView
}

// ReturnReceipt describes a successful return, including the assessed late fee (0 if none).
type ReturnReceipt struct {
	Item    ItemView
	Member  MemberView
	LateFee FeeAmount
}

// PaymentReceipt describes a fee payment.
// Applied is capped at the balance that was outstanding before the payment.
type PaymentReceipt struct {
	MemberID  MemberID
	Requested FeeAmount
	Applied   FeeAmount
	Remaining FeeAmount
}

// LoanView pairs an item on loan with its borrower.
// BorrowerName is UnknownBorrower when the holder can't be resolved.
type LoanView struct {
	Item         ItemView
	BorrowerID   MemberID
	BorrowerName string
}

// Stats holds the aggregates of the ledger. It is derived, never stored.
type Stats struct {
	TotalItems            int
	TotalMembers          int
	AvailableItems        int
	BorrowedItems         int
	LifetimeFeesCollected FeeAmount
	CurrentOutstanding    FeeAmount
}
