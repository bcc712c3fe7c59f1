package agent

import "sync"

// PendingAction is a payload awaiting an explicit yes/no from its caller,
// e.g. a batch of mail ids flagged for bulk archiving.
type PendingAction struct {
	Kind string
	IDs  []string
}

// PendingStore maps caller identity to at most one outstanding action. A
// new action replaces any prior entry for that caller; confirm and cancel
// both clear it.
type PendingStore struct {
	mu      sync.Mutex
	pending map[string]PendingAction
}

func NewPendingStore() *PendingStore {
	return &PendingStore{pending: make(map[string]PendingAction)}
}

func (s *PendingStore) Set(callerID string, action PendingAction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[callerID] = action
}

func (s *PendingStore) Get(callerID string) (PendingAction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.pending[callerID]
	return a, ok
}

func (s *PendingStore) Clear(callerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, callerID)
}
