package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/tagscore/internal/repository/memory"
	"github.com/kailas-cloud/tagscore/internal/usecase/ingest"
)

func newLoadCmd(root *rootOptions) *cobra.Command {
	var batchSize int

	cmd := &cobra.Command{
		Use:   "load <dataset.yaml>",
		Short: "Import ratings and tag vectors from a YAML dataset into the database",
		Long: `Writes every tag vector and rating history of a dataset file into
Valkey or Redis. Imported users and items are replaced; other keys are left
untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd.Context(), cmd.OutOrStdout(), root, args[0], batchSize)
		},
	}
	cmd.Flags().IntVar(&batchSize, "batch-size", ingest.DefaultBatchSize, "vectors written per round-trip")
	return cmd
}

func runLoad(ctx context.Context, w io.Writer, root *rootOptions, path string, batchSize int) error {
	cfg, logger, err := root.setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Database.Driver == "memory" {
		return errors.New("load needs a valkey or redis database, config uses the memory driver")
	}

	ratings, vectors, err := memory.LoadDataset(path)
	if err != nil {
		return err //nolint:wrapcheck // already names the dataset
	}

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	st, err := ingest.New(a.ratingRepo, a.vectorRepo, logger).
		WithBatchSize(batchSize).
		Import(ctx, ratings, vectors)
	if err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}

	fmt.Fprintf(w, "loaded %d users, %d ratings, %d vectors\n", st.Users, st.Ratings, st.Vectors)
	return nil
}
