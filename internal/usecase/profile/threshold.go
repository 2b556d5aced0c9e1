package profile

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tagscore/internal/domain/rating"
	"github.com/kailas-cloud/tagscore/internal/domain/vector"
)

// RatingThreshold is the lowest rating value that counts as a "like".
const RatingThreshold = 3.5

// ThresholdBuilder sums the tag vectors of every item rated at or above
// RatingThreshold. Lower ratings are ignored, not subtracted.
type ThresholdBuilder struct {
	accumulator
}

var _ Builder = (*ThresholdBuilder)(nil)

// NewThreshold creates a threshold profile builder.
func NewThreshold(vectors VectorSource, logger *zap.Logger) *ThresholdBuilder {
	return &ThresholdBuilder{accumulator: newAccumulator(vectors, logger)}
}

// WithOmissionCounter reports skipped items to a counter vec labeled
// ("stage", "reason").
func (b *ThresholdBuilder) WithOmissionCounter(c *prometheus.CounterVec) *ThresholdBuilder {
	b.omissions = c
	return b
}

// Build accumulates the liked items' tag vectors.
func (b *ThresholdBuilder) Build(ctx context.Context, ratings []rating.Rating) (vector.Sparse, error) {
	profile := make(vector.Sparse)
	for i := range ratings {
		r := &ratings[i]
		if r.Value() < RatingThreshold {
			continue
		}
		if err := b.addItem(ctx, profile, r.ItemID(), 1); err != nil {
			return nil, err
		}
	}
	return profile, nil
}
