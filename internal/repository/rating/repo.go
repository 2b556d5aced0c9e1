package rating

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/kailas-cloud/tagscore/internal/db"
	"github.com/kailas-cloud/tagscore/internal/domain"
	domrating "github.com/kailas-cloud/tagscore/internal/domain/rating"
)

// store is the consumer interface for rating histories (ISP).
type store interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	Del(ctx context.Context, keys ...string) error
}

// Repo reads rating histories from per-user hashes.
// Layout: <prefix>ratings:<userID>, field = item id, value = JSON {"value","ts"}.
type Repo struct {
	store  store
	prefix string
}

// New creates a rating repository. prefix namespaces all keys.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// Ratings returns the user's full rating history ordered by item id.
// A user with no stored ratings yields domain.ErrUnknownUser.
func (r *Repo) Ratings(ctx context.Context, userID int64) ([]domrating.Rating, error) {
	key := r.key(userID)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(m) == 0 {
		return nil, domain.ErrUnknownUser
	}

	out := make([]domrating.Rating, 0, len(m))
	for field, raw := range m {
		rt, err := decodeRating(userID, field, raw)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		out = append(out, rt)
	}

	slices.SortFunc(out, func(a, b domrating.Rating) int {
		switch {
		case a.ItemID() < b.ItemID():
			return -1
		case a.ItemID() > b.ItemID():
			return 1
		default:
			return 0
		}
	})
	return out, nil
}

// Save replaces the stored history of a user.
func (r *Repo) Save(ctx context.Context, userID int64, ratings []domrating.Rating) error {
	fields := make(map[string]string, len(ratings))
	for i := range ratings {
		rt := &ratings[i]
		if rt.UserID() != userID {
			return fmt.Errorf("rating for item %d belongs to user %d, not %d", rt.ItemID(), rt.UserID(), userID)
		}
		field, value, err := encodeRating(rt)
		if err != nil {
			return err
		}
		fields[field] = value
	}

	key := r.key(userID)
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	if err := r.store.HSetMulti(ctx, []db.HashSetItem{{Key: key, Fields: fields}}); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

func (r *Repo) key(userID int64) string {
	return r.prefix + "ratings:" + strconv.FormatInt(userID, 10)
}
