package convstate

import (
	"context"
	"sync"

	"github.com/harvest7777/personal-brand-intern-project/types"
)

// Store persists conversation state between turns.
type Store interface {
	// Load returns the state for conversationID. The second return reports
	// whether a record existed; absence is not an error.
	Load(ctx context.Context, conversationID string) (*types.ConversationState, bool, error)

	// Save persists state for conversationID, replacing any prior record.
	Save(ctx context.Context, conversationID string, state *types.ConversationState) error
}

// MemoryStore is an in-process Store for tests and the demo REPL.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]*types.ConversationState
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]*types.ConversationState)}
}

// Load returns a copy of the stored state so callers never alias the map.
func (s *MemoryStore) Load(ctx context.Context, conversationID string) (*types.ConversationState, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[conversationID]
	if !ok {
		return nil, false, nil
	}
	return state.Clone(), true, nil
}

// Save stores a copy of state.
func (s *MemoryStore) Save(ctx context.Context, conversationID string, state *types.ConversationState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[conversationID] = state.Clone()
	return nil
}
