package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tagscore/internal/config"
	"github.com/kailas-cloud/tagscore/internal/repository/memory"
	healthuc "github.com/kailas-cloud/tagscore/internal/usecase/health"
)

var errEmptyDataset = errors.New("dataset has no tag vectors")

func newHealthCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the configured data source is usable",
		Long: `Pings the database (or checks the in-memory dataset) and prints a JSON
report. Exits non-zero unless every check passes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHealth(cmd.Context(), cmd.OutOrStdout(), root)
		},
	}
}

func runHealth(ctx context.Context, w io.Writer, root *rootOptions) error {
	cfg, logger, err := root.setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	report := checkHealth(ctx, cfg.Database, logger)
	if err := json.NewEncoder(w).Encode(report); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if report.Status != healthuc.Healthy {
		return fmt.Errorf("health check failed: %s", report.Status)
	}
	return nil
}

// checkHealth probes the data source directly, without the readiness wait,
// so a source that cannot be opened still yields a report.
func checkHealth(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) healthuc.Report {
	svc := healthuc.New(logger)

	if cfg.Driver == "memory" {
		_, vectors, err := memory.LoadDataset(cfg.DatasetPath)
		svc.With("dataset", healthuc.CheckFunc(func(context.Context) error {
			switch {
			case err != nil:
				return err
			case vectors.Len() == 0:
				return errEmptyDataset
			}
			return nil
		}))
		return svc.Check(ctx)
	}

	store, err := openStore(cfg)
	if err != nil {
		svc.With("database", healthuc.CheckFunc(func(context.Context) error { return err }))
		return svc.Check(ctx)
	}
	defer store.Close()

	svc.WithDatabase(store)
	return svc.Check(ctx)
}
