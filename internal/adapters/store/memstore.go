package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/duetlab/duet/internal/domain/model"
	"github.com/duetlab/duet/pkg/metrics"
)

// In-memory VectorStore implementation.
//
// Ordering: ids are kept in insertion order so that iteration is
// deterministic across calls. Rankers rely on this for stable ties.

// MemStore implements VectorStore with a mutex-guarded map plus an
// insertion-ordered id slice.
type MemStore struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	order   []string
}

// NewMemStore creates an empty in-memory vector store.
func NewMemStore(_ context.Context) *MemStore {
	return &MemStore{
		entries: make(map[string]*Entry),
	}
}

// Put registers a user with its encoded vector.
func (s *MemStore) Put(_ context.Context, rec model.UserRecord, vec []float32) error {
	if vec == nil {
		return fmt.Errorf("%w: user %s", ErrNilVector, rec.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[rec.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateUser, rec.ID)
	}
	s.entries[rec.ID] = &Entry{Record: rec, Vector: vec}
	s.order = append(s.order, rec.ID)
	metrics.UpdateStoredUsers(len(s.order))
	return nil
}

// Vector returns the live vector for a user.
func (s *MemStore) Vector(_ context.Context, id string) ([]float32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUser, id)
	}
	return e.Vector, nil
}

// Record returns the immutable source record for a user.
func (s *MemStore) Record(_ context.Context, id string) (model.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return model.UserRecord{}, fmt.Errorf("%w: %s", ErrUnknownUser, id)
	}
	return e.Record, nil
}

// IDs returns all user ids in insertion order.
func (s *MemStore) IDs(_ context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// GroupIDs returns the ids of one bipartite side in insertion order.
func (s *MemStore) GroupIDs(_ context.Context, g model.Group) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []string
	for _, id := range s.order {
		if s.entries[id].Record.Group == g {
			out = append(out, id)
		}
	}
	return out
}

// Len returns the number of users in the store.
func (s *MemStore) Len(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
