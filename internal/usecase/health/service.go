package health

import (
	"context"
	"slices"

	"go.uber.org/zap"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}

// Service coordinates health checks.
type Service struct {
	checks map[string]Checker
	logger *zap.Logger
}

// New creates a Service with no checks.
func New(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{checks: make(map[string]Checker), logger: logger}
}

// WithDatabase adds a "database" check that pings the store.
func (s *Service) WithDatabase(db DBPinger) *Service {
	return s.With("database", CheckFunc(db.Ping))
}

// With adds a named check, replacing any check of the same name.
func (s *Service) With(name string, c Checker) *Service {
	s.checks[name] = c
	return s
}

// Check runs every check. The status is Healthy when all pass (or there
// are none), Unhealthy when all fail, and Degraded otherwise.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, len(s.checks))

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	slices.Sort(names)

	failed := 0
	for _, name := range names {
		if err := s.checks[name].Check(ctx); err != nil {
			s.logger.Warn("Health check failed", zap.String("check", name), zap.Error(err))
			checks[name] = CheckError
			failed++
			continue
		}
		checks[name] = CheckOK
	}

	status := Healthy
	switch {
	case failed == 0:
	case failed == len(names):
		status = Unhealthy
	default:
		status = Degraded
	}
	return Report{Status: status, Checks: checks}
}
