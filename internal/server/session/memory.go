package session

import "sync"

// MemoryStore keeps session state in a process-local map. Sessions do not
// expire on their own; they live until Destroy.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: map[string]State{}}
}

func (s *MemoryStore) Get(id string) (State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.items[id]
	return state, ok
}

func (s *MemoryStore) Put(id string, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = state
}

func (s *MemoryStore) Destroy(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
}
