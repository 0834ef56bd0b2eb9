// Package store persists recall aggregates. Both implementations perform
// version-checked writes so concurrent read-modify-write commands cannot
// silently overwrite each other.
package store

import (
	"context"
	"sync"
	"time"

	"guardian/internal/recall"
	"guardian/pkg/platform/sentinel"
)

// MemoryStore is the in-process store used by unit tests and local runs.
// It hands out deep copies so callers never share aggregate memory with the
// store.
type MemoryStore struct {
	mu      sync.RWMutex
	recalls map[string]*recall.Recall
	order   []string // insertion order, oldest first
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{recalls: make(map[string]*recall.Recall)}
}

func (s *MemoryStore) Create(_ context.Context, r *recall.Recall) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.recalls[r.ID]; exists {
		return sentinel.ErrDuplicate
	}

	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	r.Version = 1

	s.recalls[r.ID] = r.Clone()
	s.order = append(s.order, r.ID)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, recallID string) (*recall.Recall, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recalls[recallID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return r.Clone(), nil
}

// Update is a compare-and-swap on the aggregate version. On success the
// caller's aggregate is stamped with the new version and update time.
func (s *MemoryStore) Update(_ context.Context, r *recall.Recall) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.recalls[r.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if current.Version != r.Version {
		return sentinel.ErrVersionConflict
	}

	r.Version++
	r.UpdatedAt = time.Now().UTC()
	r.CreatedAt = current.CreatedAt

	s.recalls[r.ID] = r.Clone()
	return nil
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]*recall.Recall, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*recall.Recall, 0, min(limit, len(s.order)))
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.recalls[s.order[i]].Clone())
	}
	return out, nil
}
