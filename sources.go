package tagscore

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/tagscore/internal/domain"
	"github.com/kailas-cloud/tagscore/internal/domain/rating"
	"github.com/kailas-cloud/tagscore/internal/domain/vector"
)

// RatingSource supplies rating histories to NewWithSources.
// Return ErrUnknownUser (or an empty history) for a user with no ratings.
type RatingSource interface {
	Ratings(ctx context.Context, userID int64) ([]Rating, error)
}

// VectorSource supplies tag vectors to NewWithSources.
// Return ErrMissingVector (or a nil vector) for an item without one.
type VectorSource interface {
	Vector(ctx context.Context, itemID int64) (Vector, error)
}

// ratingAdapter validates caller ratings into domain ratings.
type ratingAdapter struct {
	inner RatingSource
}

func (a *ratingAdapter) Ratings(ctx context.Context, userID int64) ([]rating.Rating, error) {
	rs, err := a.inner.Ratings(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownUser) {
			return nil, domain.ErrUnknownUser
		}
		return nil, fmt.Errorf("rating source: %w", err)
	}

	out := make([]rating.Rating, 0, len(rs))
	for _, r := range rs {
		dr, err := rating.New(userID, r.ItemID, r.Value, r.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("rating of item %d: %w", r.ItemID, err)
		}
		out = append(out, dr)
	}
	return out, nil
}

// vectorAdapter copies and validates caller vectors.
type vectorAdapter struct {
	inner VectorSource
}

func (a *vectorAdapter) Vector(ctx context.Context, itemID int64) (vector.Sparse, error) {
	v, err := a.inner.Vector(ctx, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrMissingVector) {
			return nil, domain.NewMissingVector(itemID)
		}
		return nil, fmt.Errorf("vector source: %w", err)
	}
	if v == nil {
		return nil, domain.NewMissingVector(itemID)
	}

	sv := vector.Sparse(v).Clone()
	if err := sv.Validate(); err != nil {
		return nil, fmt.Errorf("item %d: %w", itemID, err)
	}
	return sv, nil
}
