package ledger

import "sync"

// SyncEngine guards a whole Engine with one lock so it can be shared between goroutines.
// No internal invariant of the Engine survives interleaved mutation, hence the single lock
// instead of finer-grained locking.
type SyncEngine struct {
	mu     sync.Mutex
	engine *Engine
}

// NewSyncEngine wraps an Engine. The caller must not use the Engine directly afterwards.
func NewSyncEngine(engine *Engine) *SyncEngine {
	return &SyncEngine{engine: engine}
}

// AddItem is the serialized Engine.AddItem.
func (s *SyncEngine) AddItem(title, author string, itemID ItemID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.engine.AddItem(title, author, itemID)
}

// RemoveItem is the serialized Engine.RemoveItem.
func (s *SyncEngine) RemoveItem(itemID ItemID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.engine.RemoveItem(itemID)
}

// RegisterMember is the serialized Engine.RegisterMember.
func (s *SyncEngine) RegisterMember(name string, memberID MemberID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.engine.RegisterMember(name, memberID)
}

// Issue is the serialized Engine.Issue.
func (s *SyncEngine) Issue(itemID ItemID, memberID MemberID) (IssuedReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.engine.Issue(itemID, memberID)
}

// ReturnItem is the serialized Engine.ReturnItem.
func (s *SyncEngine) ReturnItem(itemID ItemID, memberID MemberID) (ReturnReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.engine.ReturnItem(itemID, memberID)
}

// PayFees is the serialized Engine.PayFees.
func (s *SyncEngine) PayFees(memberID MemberID, amount FeeAmount) (PaymentReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.engine.PayFees(memberID, amount)
}

// Statistics is the serialized Engine.Statistics.
func (s *SyncEngine) Statistics() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.engine.Statistics()
}

// ListAvailable is the serialized Engine.ListAvailable.
func (s *SyncEngine) ListAvailable() []ItemView {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.engine.ListAvailable()
}

// ListBorrowed is the serialized Engine.ListBorrowed.
func (s *SyncEngine) ListBorrowed() []LoanView {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.engine.ListBorrowed()
}

// ListMembers is the serialized Engine.ListMembers.
func (s *SyncEngine) ListMembers() []MemberView {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.engine.ListMembers()
}

// Snapshot is the serialized Engine.Snapshot.
func (s *SyncEngine) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.engine.Snapshot()
}

// Do runs fn with exclusive access to the Engine, for multi-step operations that must not
// interleave with other callers.
func (s *SyncEngine) Do(fn func(engine *Engine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return fn(s.engine)
}
