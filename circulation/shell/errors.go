package shell

import (
	"errors"
)

var (
	// ErrNilJournal is returned when a Desk is opened without a journal.
	ErrNilJournal = errors.New("journal must not be nil")

	// ErrEmptySnapshotName is returned when WithSnapshotName receives an empty name.
	ErrEmptySnapshotName = errors.New("snapshot name must not be empty")

	// ErrNilClock is returned when WithClock receives nil.
	ErrNilClock = errors.New("clock must not be nil")

	// ErrReplayFailed is returned when journal events can't be applied to the ledger state.
	ErrReplayFailed = errors.New("replaying journal events failed")

	// ErrReplayDiverged is returned when a replayed payment applies a different amount than recorded.
	ErrReplayDiverged = errors.New("replayed state diverged from the journal")

	// ErrCatchingUpFailed is returned when the desk could not load events appended by others.
	ErrCatchingUpFailed = errors.New("catching up with the journal failed")

	// ErrAppendedEventNotFound is returned when the desk can't locate its own event right after appending it.
	ErrAppendedEventNotFound = errors.New("appended event not found in journal")

	// ErrDecodingSnapshotFailed is returned when a stored ledger snapshot can't be decoded.
	ErrDecodingSnapshotFailed = errors.New("decoding ledger snapshot failed")

	// ErrEncodingSnapshotFailed is returned when the ledger snapshot can't be encoded.
	ErrEncodingSnapshotFailed = errors.New("encoding ledger snapshot failed")
)
