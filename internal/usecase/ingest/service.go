package ingest

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tagscore/internal/domain/vector"
	logpkg "github.com/kailas-cloud/tagscore/internal/logger"
)

// DefaultBatchSize is the number of vectors written per round-trip.
const DefaultBatchSize = 500

// Stats summarizes an import.
type Stats struct {
	Users   int
	Ratings int
	Vectors int
}

// Service copies a dataset into the persistent store.
type Service struct {
	ratings   RatingWriter
	vectors   VectorWriter
	batchSize int
	logger    *zap.Logger
}

// New creates an ingest service.
func New(ratings RatingWriter, vectors VectorWriter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{ratings: ratings, vectors: vectors, batchSize: DefaultBatchSize, logger: logger}
}

// WithBatchSize configures how many vectors are written per round-trip.
func (s *Service) WithBatchSize(size int) *Service {
	if size > 0 {
		s.batchSize = size
	}
	return s
}

// Import writes all vectors, then every user's history. Stored histories
// and vectors of the imported ids are replaced; other keys are untouched.
func (s *Service) Import(ctx context.Context, histories HistorySource, vectors VectorDump) (Stats, error) {
	log := logpkg.FromContextOr(ctx, s.logger)
	var st Stats

	all := vectors.All()
	ids := make([]int64, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for chunk := range slices.Chunk(ids, s.batchSize) {
		batch := make(map[int64]vector.Sparse, len(chunk))
		for _, id := range chunk {
			batch[id] = all[id]
		}
		if err := s.vectors.Save(ctx, batch); err != nil {
			return st, fmt.Errorf("save vectors: %w", err)
		}
		st.Vectors += len(batch)
	}

	for _, uid := range histories.Users() {
		h, err := histories.Ratings(ctx, uid)
		if err != nil {
			return st, fmt.Errorf("read history of user %d: %w", uid, err)
		}
		if err := s.ratings.Save(ctx, uid, h); err != nil {
			return st, fmt.Errorf("save history of user %d: %w", uid, err)
		}
		st.Users++
		st.Ratings += len(h)
	}

	log.Info("Dataset imported",
		zap.Int("users", st.Users),
		zap.Int("ratings", st.Ratings),
		zap.Int("vectors", st.Vectors),
	)
	return st, nil
}
