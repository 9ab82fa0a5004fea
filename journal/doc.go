// Package journal provides the storage abstractions for the circulation journal:
// an append-only log of ledger events queried through dynamic filters.
//
// There is no fixed stream per entity. A Filter selects the events that matter
// for a decision (by event type, by JSON payload predicates and by time range),
// and Append only succeeds if no new matching event was recorded since that
// Filter was queried.
//
// Key types:
//   - StoredEvent: the scalar DTO that is written and read back
//   - Filter: the criteria that define a "dynamic event stream"
//   - SnapshotRecord: a serialized ledger state tagged with the sequence number it reflects
//
// Common usage pattern:
//
//	filter := journal.Match(core.ItemIssuedToMemberEventType, core.ItemReturnedByMemberEventType).
//		WhereAny(journal.P("MemberID", memberID)).
//		Build()
//
//	events, maxSeq, err := store.Query(ctx, filter)
//	if err != nil {
//		// handle error
//	}
//
//	event, _ := journal.BuildStoredEvent(eventType, time.Now(), payload, metadata)
//	err = store.Append(ctx, filter, maxSeq, event)
package journal
