package score

import (
	"context"

	"github.com/kailas-cloud/tagscore/internal/domain/rating"
	"github.com/kailas-cloud/tagscore/internal/domain/vector"
)

// RatingSource reads a user's rating history.
// A user without history is reported as domain.ErrUnknownUser.
type RatingSource interface {
	Ratings(ctx context.Context, userID int64) ([]rating.Rating, error)
}

// VectorSource reads precomputed item tag vectors.
// A missing vector is reported as domain.ErrMissingVector.
type VectorSource interface {
	Vector(ctx context.Context, itemID int64) (vector.Sparse, error)
}

// BatchVectorSource fetches many vectors in one round-trip.
// Items without a vector are absent from the returned map.
type BatchVectorSource interface {
	Vectors(ctx context.Context, itemIDs []int64) (map[int64]vector.Sparse, error)
}

// ProfileBuilder builds a user profile vector from rating history.
type ProfileBuilder interface {
	Build(ctx context.Context, ratings []rating.Rating) (vector.Sparse, error)
}
