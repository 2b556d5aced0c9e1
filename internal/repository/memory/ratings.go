// Package memory provides in-process rating and tag vector sources.
// They back the "memory" database driver and SDK callers that bring their
// own data.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/kailas-cloud/tagscore/internal/domain"
	"github.com/kailas-cloud/tagscore/internal/domain/rating"
)

// Ratings is a concurrency-safe in-memory rating store.
type Ratings struct {
	mu     sync.RWMutex
	byUser map[int64][]rating.Rating
}

// NewRatings creates an empty rating store.
func NewRatings() *Ratings {
	return &Ratings{byUser: make(map[int64][]rating.Rating)}
}

// Add appends ratings to their users' histories. A rating for an item the
// user already rated replaces the earlier one.
func (s *Ratings) Add(ratings ...rating.Rating) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range ratings {
		r := ratings[i]
		uid := r.UserID()
		h := s.byUser[uid]
		idx := slices.IndexFunc(h, func(old rating.Rating) bool { return old.ItemID() == r.ItemID() })
		if idx >= 0 {
			h[idx] = r
			continue
		}
		s.byUser[uid] = append(h, r)
	}
}

// Ratings returns a copy of the user's history.
// A user with no ratings yields domain.ErrUnknownUser.
func (s *Ratings) Ratings(_ context.Context, userID int64) ([]rating.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.byUser[userID]
	if !ok || len(h) == 0 {
		return nil, domain.ErrUnknownUser
	}
	return slices.Clone(h), nil
}

// Users returns all user ids with a history, ascending.
func (s *Ratings) Users() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int64, 0, len(s.byUser))
	for id := range s.byUser {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
