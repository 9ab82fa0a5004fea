package journal_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-ledger-go/journal"
)

func Test_FilterBuilder_SanitizesEventTypesAndPredicates(t *testing.T) {
	// act
	filter := journal.Match("B", "", "A", "B").
		WhereAny(journal.P("MemberID", "P2"), journal.P("", "x"), journal.P("ItemID", ""), journal.P("MemberID", "P1"), journal.P("MemberID", "P2")).
		Build()

	// assert
	require.Len(t, filter.Clauses(), 1)
	clause := filter.Clauses()[0]
	assert.Equal(t, []string{"A", "B"}, clause.EventTypes())
	assert.Equal(t, []journal.Predicate{journal.P("MemberID", "P1"), journal.P("MemberID", "P2")}, clause.Predicates())
	assert.False(t, clause.AllPredicatesMustMatch())
}

func Test_FilterBuilder_BuildsMultipleClauses(t *testing.T) {
	// arrange
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	until := from.Add(24 * time.Hour)

	// act
	filter := journal.Match("A").
		WhereAll(journal.P("ItemID", "X1"), journal.P("MemberID", "P1")).
		Or("B").
		OccurredFrom(from).
		OccurredUntil(until).
		Build()

	// assert
	require.Len(t, filter.Clauses(), 2)
	assert.True(t, filter.Clauses()[0].AllPredicatesMustMatch())
	assert.Equal(t, []string{"B"}, filter.Clauses()[1].EventTypes())
	assert.Empty(t, filter.Clauses()[1].Predicates())
	assert.Equal(t, from, filter.OccurredFrom())
	assert.Equal(t, until, filter.OccurredUntil())
}

func Test_FilterBuilder_DropsEmptyClauses(t *testing.T) {
	// act
	filter := journal.Match().Build()

	// assert
	assert.Empty(t, filter.Clauses())
	assert.Equal(t, journal.MatchAnyEvent(), filter)
}

func Test_FilterBuilder_IsImmutable(t *testing.T) {
	// arrange
	base := journal.Match("A").WhereAny(journal.P("ItemID", "X1"))

	// act
	first := base.WhereAny(journal.P("ItemID", "X2")).Build()
	second := base.Build()

	// assert
	assert.Len(t, first.Clauses()[0].Predicates(), 2)
	assert.Len(t, second.Clauses()[0].Predicates(), 1)
}

func Test_Filter_After_IsIgnoredByWithoutSequenceBound(t *testing.T) {
	// arrange
	filter := journal.Match("A").Build().After(7)

	// act
	unbound := filter.WithoutSequenceBound()

	// assert
	assert.Equal(t, journal.SequenceNumber(7), filter.AfterSequence())
	assert.Equal(t, journal.SequenceNumber(0), unbound.AfterSequence())
	assert.Equal(t, filter.Clauses(), unbound.Clauses())
}

func Test_Filter_Matches(t *testing.T) {
	occurredAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	event := givenStoredEvent(t, "ItemIssuedToMember", occurredAt, `{"ItemID":"X1","MemberID":"P1","Fee":3}`, 5)

	testCases := []struct {
		description string
		filter      journal.Filter
		expected    bool
	}{
		{"empty filter", journal.MatchAnyEvent(), true},
		{"matching event type", journal.Match("Other", "ItemIssuedToMember").Build(), true},
		{"other event type", journal.Match("Other").Build(), false},
		{"any predicate holds", journal.Match().WhereAny(journal.P("MemberID", "P9"), journal.P("ItemID", "X1")).Build(), true},
		{"no predicate holds", journal.Match().WhereAny(journal.P("MemberID", "P9")).Build(), false},
		{"all predicates hold", journal.Match("ItemIssuedToMember").WhereAll(journal.P("MemberID", "P1"), journal.P("ItemID", "X1")).Build(), true},
		{"one of all predicates fails", journal.Match("ItemIssuedToMember").WhereAll(journal.P("MemberID", "P1"), journal.P("ItemID", "X2")).Build(), false},
		{"non-string payload field never matches", journal.Match().WhereAny(journal.P("Fee", "3")).Build(), false},
		{"second clause matches", journal.Match("Other").Or("ItemIssuedToMember").Build(), true},
		{"before occurred from", journal.Match().OccurredFrom(occurredAt.Add(time.Second)).Build(), false},
		{"after occurred until", journal.Match().OccurredUntil(occurredAt.Add(-time.Second)).Build(), false},
		{"inside time range", journal.Match().OccurredFrom(occurredAt).OccurredUntil(occurredAt).Build(), true},
		{"sequence at bound", journal.MatchAnyEvent().After(5), false},
		{"sequence above bound", journal.MatchAnyEvent().After(4), true},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.filter.Matches(event))
		})
	}
}

func givenStoredEvent(t *testing.T, eventType string, occurredAt time.Time, payload string, seq journal.SequenceNumber) journal.StoredEvent {
	t.Helper()

	event, err := journal.BuildStoredEventWithEmptyMetadata(eventType, occurredAt, []byte(payload))
	require.NoError(t, err, "error in arranging test data")

	return event.WithSequenceNumber(seq)
}
