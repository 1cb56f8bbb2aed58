package modelstore

import (
	"sync"

	"github.com/smx/phishsim/internal/risk"
)

// MemoryStore is an in-memory model store for tests and ephemeral setups
type MemoryStore struct {
	mu    sync.RWMutex
	state *risk.ModelState
}

// NewMemoryStore creates an empty in-memory model store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the stored model state, or (nil, nil) when nothing was saved
func (s *MemoryStore) Load() (*risk.ModelState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, nil
}

// Save stores the model state
func (s *MemoryStore) Save(state *risk.ModelState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	return nil
}
