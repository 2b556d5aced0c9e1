package profile

import (
	"context"

	"github.com/kailas-cloud/tagscore/internal/domain/rating"
	"github.com/kailas-cloud/tagscore/internal/domain/vector"
)

// VectorSource reads precomputed item tag vectors.
// A missing vector is reported as domain.ErrMissingVector.
type VectorSource interface {
	Vector(ctx context.Context, itemID int64) (vector.Sparse, error)
}

// Builder turns a user's full rating history into a profile vector.
// The returned vector is freshly allocated and owned by the caller.
type Builder interface {
	Build(ctx context.Context, ratings []rating.Rating) (vector.Sparse, error)
}
