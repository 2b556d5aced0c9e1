package tagvector

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/tagscore/internal/db"
	"github.com/kailas-cloud/tagscore/internal/domain"
	"github.com/kailas-cloud/tagscore/internal/domain/vector"
)

// store is the consumer interface for tag vectors (ISP).
type store interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	Del(ctx context.Context, keys ...string) error
}

// Repo reads precomputed TF-IDF tag vectors from per-item hashes.
// Layout: <prefix>vec:<itemID>, field = tag, value = weight.
type Repo struct {
	store  store
	prefix string
}

// New creates a tag vector repository. prefix namespaces all keys.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// Vector returns the tag vector of an item.
// An item with no stored vector yields domain.ErrMissingVector.
func (r *Repo) Vector(ctx context.Context, itemID int64) (vector.Sparse, error) {
	key := r.key(itemID)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(m) == 0 {
		return nil, domain.NewMissingVector(itemID)
	}
	v, err := parseVector(m)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return v, nil
}

// Vectors returns the tag vectors of several items in one round-trip.
// Items without a stored vector are absent from the result.
func (r *Repo) Vectors(ctx context.Context, itemIDs []int64) (map[int64]vector.Sparse, error) {
	out := make(map[int64]vector.Sparse, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}

	keys := make([]string, len(itemIDs))
	for i, id := range itemIDs {
		keys[i] = r.key(id)
	}

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall %d vectors: %w", len(keys), err)
	}
	if len(results) != len(keys) {
		return nil, fmt.Errorf("hgetall returned %d results for %d keys", len(results), len(keys))
	}

	for i, m := range results {
		if len(m) == 0 {
			continue
		}
		v, err := parseVector(m)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", keys[i], err)
		}
		out[itemIDs[i]] = v
	}
	return out, nil
}

// Save replaces the stored vectors of the given items.
func (r *Repo) Save(ctx context.Context, vectors map[int64]vector.Sparse) error {
	if len(vectors) == 0 {
		return nil
	}

	keys := make([]string, 0, len(vectors))
	items := make([]db.HashSetItem, 0, len(vectors))
	for id, v := range vectors {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", id, err)
		}
		key := r.key(id)
		keys = append(keys, key)
		items = append(items, db.HashSetItem{Key: key, Fields: formatVector(v)})
	}

	if err := r.store.Del(ctx, keys...); err != nil {
		return fmt.Errorf("del %d vectors: %w", len(keys), err)
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("hset %d vectors: %w", len(items), err)
	}
	return nil
}

func (r *Repo) key(itemID int64) string {
	return r.prefix + "vec:" + strconv.FormatInt(itemID, 10)
}

func parseVector(m map[string]string) (vector.Sparse, error) {
	v := make(vector.Sparse, len(m))
	for tag, raw := range m {
		w, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: tag %q: %w", domain.ErrInvalidVector, tag, err)
		}
		v[tag] = w
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

func formatVector(v vector.Sparse) map[string]string {
	m := make(map[string]string, len(v))
	for tag, w := range v {
		m[tag] = strconv.FormatFloat(w, 'g', -1, 64)
	}
	return m
}
