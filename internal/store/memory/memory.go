package memory

import (
	"sort"
	"sync"

	"tweetsent/internal/store"
)

// Storage is a process-local artifact store. Values are kept encoded so
// callers never share mutable state with the store.
type Storage struct {
	mu        sync.RWMutex
	artifacts map[string][]byte
}

func NewStorage() *Storage { return &Storage{artifacts: make(map[string][]byte)} }

func (s *Storage) Put(key string, value any) error {
	data, err := store.Encode(key, value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts[key] = data
	return nil
}

func (s *Storage) Get(key string, out any) error {
	s.mu.RLock()
	data, ok := s.artifacts[key]
	s.mu.RUnlock()
	if !ok {
		return store.NotFound(key)
	}
	return store.Decode(key, data, out)
}

func (s *Storage) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.artifacts))
	for k := range s.artifacts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Storage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts = make(map[string][]byte)
	return nil
}
