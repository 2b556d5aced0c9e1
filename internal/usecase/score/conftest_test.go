package score

import (
	"context"
	"time"

	"github.com/kailas-cloud/tagscore/internal/domain"
	"github.com/kailas-cloud/tagscore/internal/domain/rating"
	"github.com/kailas-cloud/tagscore/internal/domain/vector"
)

// --- Mocks ---

type mockRatings struct {
	byUser map[int64][]rating.Rating
	err    error
}

func (m *mockRatings) Ratings(_ context.Context, userID int64) ([]rating.Rating, error) {
	if m.err != nil {
		return nil, m.err
	}
	rs, ok := m.byUser[userID]
	if !ok {
		return nil, domain.ErrUnknownUser
	}
	return rs, nil
}

type mockVectors struct {
	vecs  map[int64]vector.Sparse
	err   error
	calls int
}

func (m *mockVectors) Vector(_ context.Context, itemID int64) (vector.Sparse, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	v, ok := m.vecs[itemID]
	if !ok {
		return nil, domain.NewMissingVector(itemID)
	}
	return v, nil
}

// mockBatchVectors adds the batch capability on top of mockVectors.
type mockBatchVectors struct {
	mockVectors
	batchCalls int
	lastBatch  []int64
}

func (m *mockBatchVectors) Vectors(_ context.Context, itemIDs []int64) (map[int64]vector.Sparse, error) {
	m.batchCalls++
	m.lastBatch = itemIDs
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[int64]vector.Sparse, len(itemIDs))
	for _, id := range itemIDs {
		if v, ok := m.vecs[id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

type mockBuilder struct {
	profile vector.Sparse
	err     error
	called  bool
}

func (m *mockBuilder) Build(_ context.Context, _ []rating.Rating) (vector.Sparse, error) {
	m.called = true
	return m.profile, m.err
}

func rate(userID, itemID int64, value float64) rating.Rating {
	return rating.Reconstruct(userID, itemID, value, time.Unix(1700000000, 0))
}
