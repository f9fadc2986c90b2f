// Package memstore implements a concurrency-safe in-memory keyed store.
//
// Each Store holds one entity type in a mutex-guarded map. Per-key
// operations are atomic with respect to each other; Filter takes a snapshot
// under the read lock. Entries live for the lifetime of the process and are
// never deleted.
package memstore

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Update when no entry exists for the given id.
var ErrNotFound = errors.New("entity not found")

// Store is an in-memory map of entities keyed by their id.
// The zero value is not usable; construct stores with New.
type Store[E any] struct {
	mu      sync.RWMutex
	entries map[string]E
}

// New creates an empty Store.
func New[E any]() *Store[E] {
	return &Store[E]{
		entries: map[string]E{},
	}
}

// Insert stores the entity under the given id, overwriting any previous
// entry. The caller is responsible for supplying a fresh id.
func (s *Store[E]) Insert(ctx context.Context, id string, entity E) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[id] = entity

	return nil
}

// Find returns a copy of the entity stored under id.
func (s *Store[E]) Find(ctx context.Context, id string) (E, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entity, found := s.entries[id]

	return entity, found, nil
}

// Exists reports whether an entry is stored under id.
func (s *Store[E]) Exists(ctx context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, found := s.entries[id]

	return found, nil
}

// Update applies patch to the entry stored under id and returns a copy of
// the result. The patch runs under the write lock, so concurrent updates to
// the same id are serialized.
func (s *Store[E]) Update(ctx context.Context, id string, patch func(*E)) (E, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entity, found := s.entries[id]
	if !found {
		var zero E
		return zero, ErrNotFound
	}

	patch(&entity)
	s.entries[id] = entity

	return entity, nil
}

// Filter returns copies of all entries satisfying keep. A nil keep selects
// everything. Ordering is unspecified.
func (s *Store[E]) Filter(ctx context.Context, keep func(E) bool) ([]E, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []E{}
	for _, entity := range s.entries {
		if keep == nil || keep(entity) {
			result = append(result, entity)
		}
	}

	return result, nil
}

// Len returns the number of stored entries.
func (s *Store[E]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}
