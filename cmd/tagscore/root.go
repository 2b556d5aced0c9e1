package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tagscore/internal/config"
	logpkg "github.com/kailas-cloud/tagscore/internal/logger"
	"github.com/kailas-cloud/tagscore/internal/version"
)

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	configPath string
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "tagscore",
		Short: "Content-based item scoring from TF-IDF tag vectors",
		Long: `tagscore builds a taste profile from a user's ratings and scores
candidate items by cosine similarity between the profile and each item's
TF-IDF tag vector.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate(versionLine() + "\n")
	cmd.SetOut(out)
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"config file (default: config/<ENV>.yaml)")

	cmd.AddCommand(
		newScoreCmd(opts),
		newLoadCmd(opts),
		newHealthCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// setup loads configuration and builds the logger.
func (o *rootOptions) setup() (config.Config, *zap.Logger, error) {
	env := config.GetEnv()

	var (
		cfg config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("create logger: %w", err)
	}

	logger.Debug("Configuration loaded",
		zap.String("version", version.Version),
		zap.String("env", env),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("policy", cfg.Scoring.Policy),
		zap.Bool("vector_cache", cfg.Cache.Enabled),
	)
	return cfg, logger, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), versionLine())
		},
	}
}

func versionLine() string {
	return fmt.Sprintf("tagscore %s (commit %s, built %s)", version.Version, version.Commit, version.Date)
}
