package journal

import (
	"cmp"
	"slices"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// Filter selects the events that form one "dynamic event stream".
//
// A Filter is a disjunction of clauses. An event matches a clause when its type is one of the
// clause's event types (if any) and its payload satisfies the clause's predicates (any or all,
// if any). The optional time range applies to all clauses. The zero Filter matches every event.
//
// The lower sequence bound set with After only narrows queries; Append ignores it when it
// checks for concurrent writes, so the same Filter can be used for both.
type Filter struct {
	clauses       []Clause
	occurredFrom  time.Time
	occurredUntil time.Time
	after         SequenceNumber
}

// Clause is one alternative of a Filter.
type Clause struct {
	eventTypes []string
	predicates []Predicate
	matchAll   bool
}

// Predicate requires a top-level payload field to hold a string value.
type Predicate struct {
	key string
	val string
}

// P builds a Predicate.
func P(key, val string) Predicate {
	return Predicate{key: key, val: val}
}

func (p Predicate) Key() string { return p.key }
func (p Predicate) Val() string { return p.val }

func (c Clause) EventTypes() []string { return c.eventTypes }
func (c Clause) Predicates() []Predicate { return c.predicates }
func (c Clause) AllPredicatesMustMatch() bool { return c.matchAll }

func (f Filter) Clauses() []Clause { return f.clauses }
func (f Filter) OccurredFrom() time.Time { return f.occurredFrom }
func (f Filter) OccurredUntil() time.Time { return f.occurredUntil }
func (f Filter) AfterSequence() SequenceNumber { return f.after }

// MatchAnyEvent returns the empty Filter.
func MatchAnyEvent() Filter {
	return Filter{}
}

// After returns a copy of the Filter that only yields events recorded after sequenceNumber.
func (f Filter) After(sequenceNumber SequenceNumber) Filter {
	f.after = sequenceNumber

	return f
}

// WithoutSequenceBound returns a copy of the Filter with the After bound removed.
func (f Filter) WithoutSequenceBound() Filter {
	f.after = 0

	return f
}

// Matches reports whether the event satisfies the Filter. In-memory journals use it;
// the Postgres journal translates the same rules into SQL.
func (f Filter) Matches(event StoredEvent) bool {
	if f.after > 0 && event.SequenceNumber <= f.after {
		return false
	}

	if !f.occurredFrom.IsZero() && event.OccurredAt.Before(f.occurredFrom) {
		return false
	}

	if !f.occurredUntil.IsZero() && event.OccurredAt.After(f.occurredUntil) {
		return false
	}

	if len(f.clauses) == 0 {
		return true
	}

	var payload map[string]any
	payloadParsed := false

	for _, clause := range f.clauses {
		if len(clause.eventTypes) > 0 && !slices.Contains(clause.eventTypes, event.EventType) {
			continue
		}

		if len(clause.predicates) == 0 {
			return true
		}

		if !payloadParsed {
			payloadParsed = true
			if err := jsoniter.ConfigFastest.Unmarshal(event.PayloadJSON, &payload); err != nil {
				payload = nil
			}
		}

		if clause.matchesPayload(payload) {
			return true
		}
	}

	return false
}

func (c Clause) matchesPayload(payload map[string]any) bool {
	holds := func(p Predicate) bool {
		val, ok := payload[p.key].(string)
		return ok && val == p.val
	}

	if c.matchAll {
		return !slices.ContainsFunc(c.predicates, func(p Predicate) bool { return !holds(p) })
	}

	return slices.ContainsFunc(c.predicates, holds)
}

/***** FilterBuilder *****/

// FilterBuilder assembles a Filter clause by clause:
//
//	journal.Match(typeA, typeB).WhereAny(journal.P("ItemID", id)).
//		Or(typeC).WhereAll(journal.P("ItemID", id), journal.P("MemberID", memberID)).
//		OccurredFrom(from).
//		Build()
//
// Empty event types and partial predicates (empty key or value) are dropped;
// the rest is sorted and deduplicated so equal filters build equal queries.
type FilterBuilder struct {
	filter  Filter
	current Clause
}

// Match starts a Filter whose first clause selects the given event types.
// Calling it without event types starts a clause that only restricts the payload.
func Match(eventTypes ...string) FilterBuilder {
	return FilterBuilder{current: Clause{eventTypes: sanitizeEventTypes(eventTypes)}}
}

// WhereAny requires ANY of the predicates to hold for the current clause.
func (b FilterBuilder) WhereAny(predicates ...Predicate) FilterBuilder {
	b.current.predicates = sanitizePredicates(append(slices.Clone(b.current.predicates), predicates...))
	b.current.matchAll = false

	return b
}

// WhereAll requires ALL the predicates to hold for the current clause.
func (b FilterBuilder) WhereAll(predicates ...Predicate) FilterBuilder {
	b.current.predicates = sanitizePredicates(append(slices.Clone(b.current.predicates), predicates...))
	b.current.matchAll = true

	return b
}

// Or closes the current clause and starts a new one with the given event types.
func (b FilterBuilder) Or(eventTypes ...string) FilterBuilder {
	b.filter.clauses = b.appendCurrent()
	b.current = Clause{eventTypes: sanitizeEventTypes(eventTypes)}

	return b
}

// OccurredFrom restricts the Filter to events that occurred at or after t.
func (b FilterBuilder) OccurredFrom(t time.Time) FilterBuilder {
	b.filter.occurredFrom = t

	return b
}

// OccurredUntil restricts the Filter to events that occurred at or before t.
func (b FilterBuilder) OccurredUntil(t time.Time) FilterBuilder {
	b.filter.occurredUntil = t

	return b
}

// Build returns the Filter. Clauses without event types and predicates are dropped.
func (b FilterBuilder) Build() Filter {
	b.filter.clauses = b.appendCurrent()

	return b.filter
}

func (b FilterBuilder) appendCurrent() []Clause {
	clauses := slices.Clone(b.filter.clauses)

	if len(b.current.eventTypes) == 0 && len(b.current.predicates) == 0 {
		return clauses
	}

	return append(clauses, b.current)
}

func sanitizeEventTypes(eventTypes []string) []string {
	sanitized := slices.DeleteFunc(slices.Clone(eventTypes), func(e string) bool { return e == "" })
	slices.Sort(sanitized)

	return slices.Clip(slices.Compact(sanitized))
}

func sanitizePredicates(predicates []Predicate) []Predicate {
	sanitized := slices.DeleteFunc(predicates, func(p Predicate) bool { return p.key == "" || p.val == "" })
	slices.SortFunc(sanitized, func(a, b Predicate) int {
		if c := cmp.Compare(a.key, b.key); c != 0 {
			return c
		}

		return cmp.Compare(a.val, b.val)
	})

	return slices.Clip(slices.Compact(sanitized))
}
