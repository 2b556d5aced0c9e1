package tagscore

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tagscore/internal/db"
	healthuc "github.com/kailas-cloud/tagscore/internal/usecase/health"
)

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            `json:"status"` // "ok", "degraded", "error"
	Checks map[string]string `json:"checks"` // component → "ok"/"error"
}

// OK reports whether every component passed.
func (h HealthStatus) OK() bool { return h.Status == string(healthuc.Healthy) }

// Health checks the health of all system components.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

type sizedSource interface {
	Len() int
}

var errEmptyDataset = errors.New("dataset has no tag vectors")

func newHealth(store db.Store, vectors vectorSource, logger *zap.Logger) *healthuc.Service {
	svc := healthuc.New(logger)
	if store != nil {
		svc.WithDatabase(store)
	}
	if sized, ok := vectors.(sizedSource); ok {
		svc.With("dataset", healthuc.CheckFunc(func(context.Context) error {
			if sized.Len() == 0 {
				return errEmptyDataset
			}
			return nil
		}))
	}
	return svc
}
