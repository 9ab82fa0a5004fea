package ledger

// Instead of implementing full value objects, alias types are used for identifiers and amounts.

// ItemID is the catalog-wide unique identifier of an item (e.g. an ISBN).
type ItemID = string

// MemberID is the roster-wide unique identifier of a member.
type MemberID = string

// FeeAmount is a monetary amount in the system's currency unit.
type FeeAmount = float64

// MaxHeldItems is the borrow limit: no member may hold more items at the same time.
const MaxHeldItems = 5

// UnknownBorrower is reported for an item on loan whose holder can't be resolved.
const UnknownBorrower = "unknown"
