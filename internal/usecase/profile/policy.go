package profile

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tagscore/internal/domain"
)

// Policy selects how ratings are aggregated into a profile.
type Policy string

const (
	// Threshold sums the vectors of items rated at or above RatingThreshold.
	Threshold Policy = "threshold"
	// Weighted sums mean-centered, rating-weighted vectors of all rated items.
	Weighted Policy = "weighted"
)

// ParsePolicy parses a policy name (case-insensitive). Empty means Threshold.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", Threshold:
		return Threshold, nil
	case Weighted:
		return Weighted, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownPolicy, s)
	}
}

// String returns the policy name.
func (p Policy) String() string { return string(p) }

// New creates the builder for a policy. omissions may be nil.
func New(p Policy, vectors VectorSource, omissions *prometheus.CounterVec, logger *zap.Logger) (Builder, error) {
	switch p {
	case Threshold:
		return NewThreshold(vectors, logger).WithOmissionCounter(omissions), nil
	case Weighted:
		return NewWeighted(vectors, logger).WithOmissionCounter(omissions), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownPolicy, string(p))
	}
}
