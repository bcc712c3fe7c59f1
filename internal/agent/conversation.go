package agent

import (
	"sync"

	"github.com/mohsen-qasemi/herald/provider"
)

// historyTurns caps per-caller chat memory, counting individual messages
// (a request/response pair is two turns).
const historyTurns = 20

// ConversationStore keeps a bounded per-caller conversation history.
// Callers are isolated by key; the mutex also serialises concurrent
// requests racing on the same caller's ring.
type ConversationStore struct {
	mu      sync.Mutex
	history map[string][]provider.Message
}

func NewConversationStore() *ConversationStore {
	return &ConversationStore{history: make(map[string][]provider.Message)}
}

// Append records one turn, evicting the oldest once the cap is reached.
func (s *ConversationStore) Append(callerID, role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns := append(s.history[callerID], provider.Message{Role: role, Content: content})
	if len(turns) > historyTurns {
		turns = turns[len(turns)-historyTurns:]
	}
	s.history[callerID] = turns
}

// History returns a copy of the caller's recorded turns, oldest first.
func (s *ConversationStore) History(callerID string) []provider.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns := s.history[callerID]
	out := make([]provider.Message, len(turns))
	copy(out, turns)
	return out
}

// Clear drops the caller's history.
func (s *ConversationStore) Clear(callerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.history, callerID)
}
