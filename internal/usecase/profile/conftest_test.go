package profile

import (
	"context"
	"time"

	"github.com/kailas-cloud/tagscore/internal/domain"
	"github.com/kailas-cloud/tagscore/internal/domain/rating"
	"github.com/kailas-cloud/tagscore/internal/domain/vector"
)

// mockVectors implements VectorSource for tests.
type mockVectors struct {
	vecs  map[int64]vector.Sparse
	err   error
	calls []int64
}

func (m *mockVectors) Vector(_ context.Context, itemID int64) (vector.Sparse, error) {
	m.calls = append(m.calls, itemID)
	if m.err != nil {
		return nil, m.err
	}
	v, ok := m.vecs[itemID]
	if !ok {
		return nil, domain.NewMissingVector(itemID)
	}
	return v, nil
}

func rate(itemID int64, value float64) rating.Rating {
	return rating.Reconstruct(1, itemID, value, time.Unix(1700000000, 0))
}
