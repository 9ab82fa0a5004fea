package journal

import (
	"time"

	jsoniter "github.com/json-iterator/go"
)

// SnapshotRecord is a serialized ledger state together with the journal position it reflects.
// Replaying the events after SequenceNumber on top of Data yields the current state.
type SnapshotRecord struct {
	Name           string
	SequenceNumber SequenceNumber
	Data           []byte
	CreatedAt      time.Time
}

// Validate ensures the snapshot can be stored.
func (s SnapshotRecord) Validate() error {
	if s.Name == "" {
		return ErrEmptySnapshotName
	}

	if !jsoniter.ConfigFastest.Valid(s.Data) {
		return ErrInvalidSnapshotJSON
	}

	return nil
}

// BuildSnapshotRecord creates a validated SnapshotRecord.
func BuildSnapshotRecord(name string, sequenceNumber SequenceNumber, data []byte, createdAt time.Time) (SnapshotRecord, error) {
	record := SnapshotRecord{
		Name:           name,
		SequenceNumber: sequenceNumber,
		Data:           data,
		CreatedAt:      createdAt,
	}

	if err := record.Validate(); err != nil {
		return SnapshotRecord{}, err
	}

	return record, nil
}
