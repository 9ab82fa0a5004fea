package ledger

// Roster owns the registered members, keyed by a unique identifier.
// Members are never removed. Iteration follows registration order.
type Roster struct {
	members map[MemberID]*Member
	order   []MemberID
}

// NewRoster creates an empty Roster.
func NewRoster() *Roster {
	return &Roster{
		members: make(map[MemberID]*Member),
		order:   make([]MemberID, 0),
	}
}

// Register inserts a new member with an empty held-set and no fees.
// It fails with ErrDuplicateIdentifier if the identifier is already present.
func (r *Roster) Register(name string, id MemberID) error {
	if _, exists := r.members[id]; exists {
		return duplicateIdentifier("member", id)
	}

	r.members[id] = newMember(name, id)
	r.order = append(r.order, id)

	return nil
}

// Find looks up a member without side effects.
func (r *Roster) Find(id MemberID) (*Member, bool) {
	member, exists := r.members[id]
	return member, exists
}

// Len returns the number of members.
func (r *Roster) Len() int {
	return len(r.order)
}

// All returns the members in registration order.
func (r *Roster) All() []*Member {
	all := make([]*Member, 0, len(r.order))
	for _, id := range r.order {
		all = append(all, r.members[id])
	}

	return all
}
