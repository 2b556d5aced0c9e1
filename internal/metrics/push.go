package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus/push"
)

// Push sends the scoring collectors to a Prometheus Pushgateway.
// Used by one-shot CLI runs, which are never scraped.
func Push(ctx context.Context, url, job string, grouping map[string]string) error {
	reg, err := NewRegistry()
	if err != nil {
		return err
	}

	p := push.New(url, job).Gatherer(reg)
	for name, value := range grouping {
		p = p.Grouping(name, value)
	}
	if err = p.AddContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
