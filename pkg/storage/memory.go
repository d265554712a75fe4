package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps artifacts in a map.
type MemoryStore struct {
	mu        sync.RWMutex
	artifacts map[string]Artifact
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{artifacts: make(map[string]Artifact)}
}

func (s *MemoryStore) Put(ctx context.Context, a *Artifact) error {
	if err := check(a); err != nil {
		return err
	}
	cp := *a
	cp.Data = append([]byte(nil), a.Data...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts[a.ID] = cp
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.artifacts[id]
	if !ok {
		return nil, notFound(id)
	}
	a.Data = append([]byte(nil), a.Data...)
	return &a, nil
}

// Len returns the number of stored artifacts.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.artifacts)
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)

// NullStore discards artifacts.
type NullStore struct{}

// NewNullStore creates a store that keeps nothing.
func NewNullStore() Store { return NullStore{} }

func (NullStore) Put(ctx context.Context, a *Artifact) error { return check(a) }

func (NullStore) Get(ctx context.Context, id string) (*Artifact, error) {
	return nil, notFound(id)
}

func (NullStore) Close() error { return nil }
