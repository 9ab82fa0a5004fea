// Package shell connects the ledger engine to the circulation journal.
//
// The Desk is the one place where the engine may be touched concurrently: it serializes
// all operations behind a mutex, records every outcome as a domain event in the journal
// and keeps the in-memory engine in step with what other desks appended meanwhile.
//
// The package also holds the mapping between domain events and stored events, the
// deterministic Replay of journal events onto a ledger snapshot, and the retry policy
// used when the journal reports a concurrency conflict.
//
// In Hexagonal Architecture terminology, this is the adapter layer around the ledger core.
package shell
