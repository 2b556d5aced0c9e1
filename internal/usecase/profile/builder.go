package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tagscore/internal/domain"
	"github.com/kailas-cloud/tagscore/internal/domain/vector"
	logpkg "github.com/kailas-cloud/tagscore/internal/logger"
)

// accumulator holds what both policies share: the vector source and the
// omission reporting.
type accumulator struct {
	vectors   VectorSource
	logger    *zap.Logger
	omissions *prometheus.CounterVec
}

func newAccumulator(vectors VectorSource, logger *zap.Logger) accumulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return accumulator{vectors: vectors, logger: logger}
}

// addItem adds factor times the item's tag vector to the profile.
// A missing vector is recorded and skipped; other errors are returned.
func (a *accumulator) addItem(ctx context.Context, profile vector.Sparse, itemID int64, factor float64) error {
	iv, err := a.vectors.Vector(ctx, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrMissingVector) {
			a.omit(ctx, itemID, err)
			return nil
		}
		return fmt.Errorf("get tag vector for item %d: %w", itemID, err)
	}
	profile.AddScaled(iv, factor)
	return nil
}

func (a *accumulator) omit(ctx context.Context, itemID int64, reason error) {
	label := domain.OmissionReason(reason)
	if a.omissions != nil {
		a.omissions.WithLabelValues("profile", label).Inc()
	}
	logpkg.FromContextOr(ctx, a.logger).Debug("Skipping rated item",
		zap.Int64("item_id", itemID),
		zap.String("reason", label),
	)
}
