package vcache

import (
	"context"
	"testing"

	"github.com/kailas-cloud/tagscore/internal/domain"
	"github.com/kailas-cloud/tagscore/internal/domain/vector"
	"go.uber.org/zap"
)

// mockSource implements Source and counts calls.
type mockSource struct {
	vectors map[int64]vector.Sparse
	err     error
	calls   int
}

func (m *mockSource) Vector(_ context.Context, itemID int64) (vector.Sparse, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	v, ok := m.vectors[itemID]
	if !ok {
		return nil, domain.NewMissingVector(itemID)
	}
	return v.Clone(), nil
}

// mockBatchSource implements BatchSource and records batches.
type mockBatchSource struct {
	mockSource
	batches [][]int64
}

func (m *mockBatchSource) Vectors(_ context.Context, itemIDs []int64) (map[int64]vector.Sparse, error) {
	m.batches = append(m.batches, itemIDs)
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[int64]vector.Sparse)
	for _, id := range itemIDs {
		if v, ok := m.vectors[id]; ok {
			out[id] = v.Clone()
		}
	}
	return out, nil
}

func newTestCache(t *testing.T, inner Source) *Cache {
	t.Helper()
	c, err := New(inner, Config{MaxEntries: 100}, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}
