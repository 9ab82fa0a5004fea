// Package core contains the domain events of the lending desk.
//
// Events describe what happened at the desk (ItemIssuedToMember, FeesPaid, ...) rather
// than generic create/update operations. Each successful ledger mutation produces exactly
// one event; rejected issue, return and payment requests produce a failure event so the
// member history also shows what was refused and why.
//
// All events implement DomainEvent and serialize to flat JSON payloads whose ItemID and
// MemberID fields are used by journal filters.
package core
