// Package memory implements an in-process store.Store.
package memory

import (
	"context"
	"sync"

	"github.com/alfredjeanlab/qrscout/internal/store"
)

// MemoryStore keeps snapshots in a map. Contents do not survive the process.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ store.Store = (*MemoryStore)(nil)

// New returns an empty MemoryStore.
func New() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Save(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Load(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return "", store.ErrNotFound
	}
	return v, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return store.ErrNotFound
	}
	delete(s.values, key)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
