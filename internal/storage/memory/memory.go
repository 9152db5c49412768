// Package memory provides an in-process storage.KV.
package memory

import (
	"context"
	"sync"
)

// Store is an in-memory implementation of storage.KV.
// The zero value is not usable; call New.
type Store struct {
	mu     sync.RWMutex
	values map[string]string

	// Error injection for testing
	GetErr error
	SetErr error
}

// New creates an empty store.
func New() *Store {
	return &Store{values: make(map[string]string)}
}

// Put seeds a raw value, bypassing SetErr.
func (s *Store) Put(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Get implements storage.KV.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if s.GetErr != nil {
		return "", false, s.GetErr
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

// Set implements storage.KV.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if s.SetErr != nil {
		return s.SetErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Close implements storage.KV.
func (s *Store) Close() error { return nil }
