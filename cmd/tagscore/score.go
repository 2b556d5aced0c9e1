package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tagscore/internal/config"
	"github.com/kailas-cloud/tagscore/internal/domain"
	domscore "github.com/kailas-cloud/tagscore/internal/domain/score"
	logpkg "github.com/kailas-cloud/tagscore/internal/logger"
	"github.com/kailas-cloud/tagscore/internal/metrics"
)

const pushTimeout = 5 * time.Second

type scoreOptions struct {
	users  []int64
	items  []int64
	policy string
	limit  int
}

func newScoreCmd(root *rootOptions) *cobra.Command {
	o := &scoreOptions{}

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score candidate items for one or more users",
		Long: `Scores every candidate item against each user's taste profile and
prints one JSON document per user:

  {"user_id":42,"policy":"threshold","scores":[{"item_id":3,"score":0.71}],"omitted":{"9":"missing_vector"}}`,
		Example: "  tagscore score --user 42 --items 1,2,3 --policy weighted --limit 10",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScore(cmd.Context(), cmd.OutOrStdout(), root, o)
		},
	}

	cmd.Flags().Int64SliceVarP(&o.users, "user", "u", nil, "user id(s) to score for")
	cmd.Flags().Int64SliceVarP(&o.items, "items", "i", nil, "candidate item ids")
	cmd.Flags().StringVarP(&o.policy, "policy", "p", "", "profile policy: threshold or weighted (default from config)")
	cmd.Flags().IntVarP(&o.limit, "limit", "l", -1, "max items per user, 0 = all (default from config)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("items")
	return cmd
}

// scoreOutput is the JSON document printed per user.
type scoreOutput struct {
	UserID  int64            `json:"user_id"`
	Policy  string           `json:"policy"`
	Scores  []scoredItem     `json:"scores"`
	Omitted map[int64]string `json:"omitted,omitempty"`
}

type scoredItem struct {
	ItemID int64   `json:"item_id"`
	Score  float64 `json:"score"`
}

func newScoreOutput(userID int64, policy string, res *domscore.Result, limit int) scoreOutput {
	ranked := res.Ranked(limit)
	out := scoreOutput{
		UserID: userID,
		Policy: policy,
		Scores: make([]scoredItem, len(ranked)),
	}
	for i, it := range ranked {
		out.Scores[i] = scoredItem{ItemID: it.ItemID, Score: it.Score}
	}
	if om := res.Omitted(); len(om) > 0 {
		out.Omitted = make(map[int64]string, len(om))
		for id, err := range om {
			out.Omitted[id] = domain.OmissionReason(err)
		}
	}
	return out
}

func runScore(ctx context.Context, w io.Writer, root *rootOptions, o *scoreOptions) error {
	cfg, logger, err := root.setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	policy := cfg.Scoring.Policy
	if o.policy != "" {
		policy = o.policy
	}
	limit := cfg.Scoring.DefaultLimit
	if o.limit >= 0 {
		limit = o.limit
	}

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.withVectorCache(); err != nil {
		return err
	}
	svc, pol, err := a.scorer(policy)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	log := logger.With(zap.String("run_id", runID))
	ctx = logpkg.ContextWithLogger(ctx, log)

	enc := json.NewEncoder(w)
	for _, userID := range o.users {
		res, err := svc.Score(ctx, userID, o.items)
		if err != nil {
			return fmt.Errorf("score user %d: %w", userID, err)
		}
		if err := enc.Encode(newScoreOutput(userID, pol.String(), &res, limit)); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}

	pushMetrics(ctx, cfg.Metrics, log)
	return nil
}

// pushMetrics sends this run's counters to the Pushgateway, if configured.
// A failed push is logged, not returned: scores were already written.
func pushMetrics(ctx context.Context, cfg config.MetricsConfig, log *zap.Logger) {
	if cfg.PushgatewayURL == "" {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, pushTimeout)
	defer cancel()

	instance, err := os.Hostname()
	if err != nil {
		instance = "unknown"
	}
	if err := metrics.Push(ctx, cfg.PushgatewayURL, cfg.Job, map[string]string{"instance": instance}); err != nil {
		log.Warn("Failed to push metrics", zap.String("url", cfg.PushgatewayURL), zap.Error(err))
		return
	}
	log.Debug("Metrics pushed", zap.String("url", cfg.PushgatewayURL))
}
