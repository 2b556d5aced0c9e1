package profile

import (
	"context"
	"math"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tagscore/internal/domain"
	"github.com/kailas-cloud/tagscore/internal/domain/rating"
	"github.com/kailas-cloud/tagscore/internal/domain/vector"
	logpkg "github.com/kailas-cloud/tagscore/internal/logger"
)

// WeightedBuilder weights every rated item's tag vector by how far the
// rating sits from the user's mean rating. Ratings below the mean pull
// their tags negative; the resulting weights are not clamped.
type WeightedBuilder struct {
	accumulator
}

var _ Builder = (*WeightedBuilder)(nil)

// NewWeighted creates a mean-centered weighted profile builder.
func NewWeighted(vectors VectorSource, logger *zap.Logger) *WeightedBuilder {
	return &WeightedBuilder{accumulator: newAccumulator(vectors, logger)}
}

// WithOmissionCounter reports skipped items to a counter vec labeled
// ("stage", "reason").
func (b *WeightedBuilder) WithOmissionCounter(c *prometheus.CounterVec) *WeightedBuilder {
	b.omissions = c
	return b
}

// Build accumulates (value - mean) * weight for every rating.
// The mean covers the full history, including items whose vectors are missing.
func (b *WeightedBuilder) Build(ctx context.Context, ratings []rating.Rating) (vector.Sparse, error) {
	profile := make(vector.Sparse)

	mean, ok := rating.Mean(ratings)
	if !ok {
		if b.omissions != nil {
			b.omissions.WithLabelValues("profile", domain.OmissionReason(domain.ErrInvalidHistory)).Inc()
		}
		logpkg.FromContextOr(ctx, b.logger).Debug("Empty rating history, returning empty profile")
		return profile, nil
	}
	logpkg.FromContextOr(ctx, b.logger).Debug("Rating mean", zap.Float64("mean", mean))

	for i := range ratings {
		r := &ratings[i]
		if err := b.addItem(ctx, profile, r.ItemID(), centered(r.Value(), mean)); err != nil {
			return nil, err
		}
	}
	return profile, nil
}

// meanTolerance is the relative distance from the mean below which a
// rating counts as equal to it.
const meanTolerance = 1e-9

// centered returns value - mean, snapped to zero when the difference is
// rounding noise.
func centered(value, mean float64) float64 {
	d := value - mean
	if math.Abs(d) <= meanTolerance*math.Max(1, math.Abs(mean)) {
		return 0
	}
	return d
}
