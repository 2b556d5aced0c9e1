// Package vcache caches tag vectors in process in front of a slower source.
package vcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tagscore/internal/domain"
	"github.com/kailas-cloud/tagscore/internal/domain/vector"
)

// Source is the wrapped vector source.
type Source interface {
	Vector(ctx context.Context, itemID int64) (vector.Sparse, error)
}

// BatchSource is a Source that can fetch many vectors in one call.
type BatchSource interface {
	Source
	Vectors(ctx context.Context, itemIDs []int64) (map[int64]vector.Sparse, error)
}

// Config sizes the cache. TTL <= 0 keeps entries until evicted.
type Config struct {
	MaxEntries int64
	TTL        time.Duration
}

// Cache is a read-through tag vector cache. Only found vectors are cached,
// so an item whose vector appears later is picked up on the next miss.
type Cache struct {
	inner      Source
	cache      *ristretto.Cache[int64, vector.Sparse]
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(inner Source, cfg Config, cacheTotal *prometheus.CounterVec, logger *zap.Logger) (*Cache, error) {
	if cfg.MaxEntries <= 0 {
		return nil, fmt.Errorf("max entries must be positive, got %d", cfg.MaxEntries)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c, err := ristretto.NewCache(&ristretto.Config[int64, vector.Sparse]{
		NumCounters:        cfg.MaxEntries * 10,
		MaxCost:            cfg.MaxEntries, // every entry costs 1
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create ristretto cache: %w", err)
	}

	return &Cache{
		inner:      inner,
		cache:      c,
		ttl:        cfg.TTL,
		cacheTotal: cacheTotal,
		logger:     logger,
	}, nil
}

// Vector returns a cached vector or reads it from the inner source.
func (c *Cache) Vector(ctx context.Context, itemID int64) (vector.Sparse, error) {
	if v, ok := c.cache.Get(itemID); ok {
		c.incCache("hit")
		return v.Clone(), nil
	}
	c.incCache("miss")

	v, err := c.inner.Vector(ctx, itemID)
	if err != nil {
		return nil, err //nolint:wrapcheck // decorator is transparent to callers
	}
	c.put(itemID, v)
	return v, nil
}

// Vectors returns the vectors of several items. Misses are fetched in one
// batch when the inner source supports it.
func (c *Cache) Vectors(ctx context.Context, itemIDs []int64) (map[int64]vector.Sparse, error) {
	out := make(map[int64]vector.Sparse, len(itemIDs))
	var misses []int64
	for _, id := range itemIDs {
		if v, ok := c.cache.Get(id); ok {
			out[id] = v.Clone()
			continue
		}
		misses = append(misses, id)
	}
	c.addCache("hit", len(itemIDs)-len(misses))
	c.addCache("miss", len(misses))
	if len(misses) == 0 {
		return out, nil
	}

	fetched, err := c.fetch(ctx, misses)
	if err != nil {
		return nil, err
	}
	for id, v := range fetched {
		c.put(id, v)
		out[id] = v
	}
	return out, nil
}

// Wait blocks until buffered writes are applied.
func (c *Cache) Wait() {
	c.cache.Wait()
}

// Close stops the cache's background goroutines.
func (c *Cache) Close() {
	c.cache.Close()
}

func (c *Cache) fetch(ctx context.Context, ids []int64) (map[int64]vector.Sparse, error) {
	if bs, ok := c.inner.(BatchSource); ok {
		return bs.Vectors(ctx, ids) //nolint:wrapcheck // decorator is transparent to callers
	}

	out := make(map[int64]vector.Sparse, len(ids))
	for _, id := range ids {
		v, err := c.inner.Vector(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrMissingVector) {
				continue
			}
			return nil, err //nolint:wrapcheck // decorator is transparent to callers
		}
		out[id] = v
	}
	return out, nil
}

func (c *Cache) put(itemID int64, v vector.Sparse) {
	var ok bool
	if c.ttl > 0 {
		ok = c.cache.SetWithTTL(itemID, v.Clone(), 1, c.ttl)
	} else {
		ok = c.cache.Set(itemID, v.Clone(), 1)
	}
	if !ok {
		c.logger.Debug("Vector cache dropped set", zap.Int64("item_id", itemID))
	}
}

func (c *Cache) incCache(result string) {
	c.addCache(result, 1)
}

func (c *Cache) addCache(result string, n int) {
	if c.cacheTotal != nil && n > 0 {
		c.cacheTotal.WithLabelValues(result).Add(float64(n))
	}
}
