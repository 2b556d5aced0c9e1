package tagscore

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tagscore/internal/metrics"
)

// sdkMetrics holds the scoring collectors registered for the SDK.
type sdkMetrics struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	omissions *prometheus.CounterVec
	cache     *prometheus.CounterVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		requests:  metrics.ScoringRequestsTotal,
		duration:  metrics.ScoringDuration,
		omissions: metrics.OmissionsTotal,
		cache:     metrics.VectorCacheTotal,
	}
	if err := registerOrReuse(reg, &m.requests); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.omissions); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.cache); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("tagscore: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("tagscore: register metric: %w", err)
	}
	return nil
}

// opObserver logs SDK operation outcomes.
type opObserver struct {
	logger *zap.Logger
}

func (o *opObserver) observe(op string, start time.Time, err error) {
	if o == nil || o.logger == nil {
		return
	}
	dur := time.Since(start)
	if err != nil {
		o.logger.Warn("Operation failed",
			zap.String("op", op),
			zap.Duration("duration", dur),
			zap.Error(err),
		)
		return
	}
	o.logger.Debug("Operation completed",
		zap.String("op", op),
		zap.Duration("duration", dur),
	)
}
