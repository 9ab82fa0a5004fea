// Package ledger provides the lending and fee-accounting engine of a small lending library.
//
// The Engine composes a Catalog of items and a Roster of members and enforces every
// cross-entity rule: identity uniqueness, the borrow limit, fee gating, the lockstep between
// an item's availability flag and the held-set of exactly one member, and late fee assessment
// on return. Aggregate statistics are always recomputed from the current state.
//
// The engine performs no I/O. Every operation takes primitive identifiers, strings and amounts
// and returns either a receipt describing what changed or one of the sentinel errors of this
// package, which callers inspect with errors.Is / errors.As:
//
//	engine, _ := ledger.NewEngine(ledger.WithLateFeePolicy(ledger.NoLateFeePolicy()))
//
//	_ = engine.AddItem("1984", "George Orwell", "978-0451524935")
//	_ = engine.RegisterMember("Ali Khan", "P001")
//
//	receipt, err := engine.Issue("978-0451524935", "P001")
//	if errors.Is(err, ledger.ErrFeesOwed) {
//		var feesOwed *ledger.FeesOwedError
//		_ = errors.As(err, &feesOwed) // feesOwed.Amount holds the open balance
//	}
//
// The Engine is not safe for concurrent use. Wrap it in a SyncEngine when it is shared between
// goroutines.
package ledger
