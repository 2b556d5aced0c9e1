package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Scoring Prometheus metrics.
var (
	ScoringRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tagscore",
			Name:      "scoring_requests_total",
			Help:      "Total number of scoring calls",
		},
		[]string{"policy", "status"}, // status: "ok" / "unknown_user" / "error"
	)

	ScoringDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tagscore",
			Name:      "scoring_duration_seconds",
			Help:      "Scoring call duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"policy"},
	)

	OmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tagscore",
			Name:      "omissions_total",
			Help:      "Items skipped during profile building or scoring",
		},
		[]string{"stage", "reason"}, // stage: "profile" / "score"
	)

	VectorCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tagscore",
			Name:      "vector_cache_total",
			Help:      "Tag vector cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

// Collectors returns every scoring collector.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		ScoringRequestsTotal,
		ScoringDuration,
		OmissionsTotal,
		VectorCacheTotal,
	}
}

// NewRegistry returns a registry holding only the scoring collectors.
func NewRegistry() (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	for _, c := range Collectors() {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}
	return reg, nil
}
