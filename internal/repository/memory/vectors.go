package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/kailas-cloud/tagscore/internal/domain"
	"github.com/kailas-cloud/tagscore/internal/domain/vector"
)

// Vectors is a concurrency-safe in-memory tag vector store.
// Vectors are copied on the way in and out.
type Vectors struct {
	mu     sync.RWMutex
	byItem map[int64]vector.Sparse
}

// NewVectors creates an empty vector store.
func NewVectors() *Vectors {
	return &Vectors{byItem: make(map[int64]vector.Sparse)}
}

// Put stores the vector of an item, replacing any previous one.
func (s *Vectors) Put(itemID int64, v vector.Sparse) error {
	if err := v.Validate(); err != nil {
		return fmt.Errorf("item %d: %w", itemID, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byItem[itemID] = v.Clone()
	return nil
}

// Vector returns the tag vector of an item, or domain.ErrMissingVector.
func (s *Vectors) Vector(_ context.Context, itemID int64) (vector.Sparse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.byItem[itemID]
	if !ok {
		return nil, domain.NewMissingVector(itemID)
	}
	return v.Clone(), nil
}

// Vectors returns the vectors of the given items; missing items are absent.
func (s *Vectors) Vectors(_ context.Context, itemIDs []int64) (map[int64]vector.Sparse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int64]vector.Sparse, len(itemIDs))
	for _, id := range itemIDs {
		if v, ok := s.byItem[id]; ok {
			out[id] = v.Clone()
		}
	}
	return out, nil
}

// All returns a copy of every stored vector.
func (s *Vectors) All() map[int64]vector.Sparse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int64]vector.Sparse, len(s.byItem))
	for id, v := range s.byItem {
		out[id] = v.Clone()
	}
	return out
}

// Len returns the number of stored vectors.
func (s *Vectors) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byItem)
}
