package ingest

import (
	"context"

	"github.com/kailas-cloud/tagscore/internal/domain/rating"
	"github.com/kailas-cloud/tagscore/internal/domain/vector"
)

// RatingWriter replaces a user's stored rating history.
type RatingWriter interface {
	Save(ctx context.Context, userID int64, ratings []rating.Rating) error
}

// VectorWriter replaces stored tag vectors.
type VectorWriter interface {
	Save(ctx context.Context, vectors map[int64]vector.Sparse) error
}

// HistorySource enumerates the rating histories to import.
type HistorySource interface {
	Users() []int64
	Ratings(ctx context.Context, userID int64) ([]rating.Rating, error)
}

// VectorDump exposes every tag vector to import.
type VectorDump interface {
	All() map[int64]vector.Sparse
}
