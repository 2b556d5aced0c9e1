package db

import (
	"context"
	"time"
)

// Store is the database facade used by the composition root.
// Repositories depend on narrow consumer interfaces instead.
type Store interface {
	Pinger
	HashReader
	HashWriter
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashReader reads hashes. A missing key reads as an empty map.
type HashReader interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
}

// HashWriter writes hashes.
type HashWriter interface {
	HSetMulti(ctx context.Context, items []HashSetItem) error
	Del(ctx context.Context, keys ...string) error
}

// HashSetItem is one hash to store in a batched write.
type HashSetItem struct {
	Key    string
	Fields map[string]string
}
