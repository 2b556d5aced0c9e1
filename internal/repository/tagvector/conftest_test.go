package tagvector

import (
	"context"

	"github.com/kailas-cloud/tagscore/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hgetAllFn      func(ctx context.Context, key string) (map[string]string, error)
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	hsetMultiFn    func(ctx context.Context, items []db.HashSetItem) error
	delFn          func(ctx context.Context, keys ...string) error
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return make([]map[string]string, len(keys)), nil
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	if m.delFn != nil {
		return m.delFn(ctx, keys...)
	}
	return nil
}

// hashStore is an in-memory hash map backing round-trip tests.
func hashStore() *mockStore {
	data := map[string]map[string]string{}
	return &mockStore{
		hgetAllFn: func(_ context.Context, key string) (map[string]string, error) {
			if m, ok := data[key]; ok {
				return m, nil
			}
			return map[string]string{}, nil
		},
		hgetAllMultiFn: func(_ context.Context, keys []string) ([]map[string]string, error) {
			out := make([]map[string]string, len(keys))
			for i, k := range keys {
				out[i] = data[k]
			}
			return out, nil
		},
		hsetMultiFn: func(_ context.Context, items []db.HashSetItem) error {
			for _, it := range items {
				if data[it.Key] == nil {
					data[it.Key] = map[string]string{}
				}
				for f, v := range it.Fields {
					data[it.Key][f] = v
				}
			}
			return nil
		},
		delFn: func(_ context.Context, keys ...string) error {
			for _, k := range keys {
				delete(data, k)
			}
			return nil
		},
	}
}
