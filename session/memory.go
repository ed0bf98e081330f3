package session

import "sync"

// Memory is an in-process Storage backend. It survives nothing, which makes
// it the right default for tests and for embedders that manage their own
// persistence.
type Memory struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{m: make(map[string]string)}
}

// Get returns the stored value for key.
func (s *Memory) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok, nil
}

// SetAll stores every pair under the lock, so readers never observe a
// partial write.
func (s *Memory) SetAll(pairs map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range pairs {
		s.m[k] = v
	}
	return nil
}

// DeleteAll removes the given keys.
func (s *Memory) DeleteAll(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.m, k)
	}
	return nil
}
