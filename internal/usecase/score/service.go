package score

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tagscore/internal/domain"
	domscore "github.com/kailas-cloud/tagscore/internal/domain/score"
	"github.com/kailas-cloud/tagscore/internal/domain/vector"
	logpkg "github.com/kailas-cloud/tagscore/internal/logger"
)

// Service scores candidate items for a user by cosine similarity between
// the user's profile vector and each item's tag vector.
// It holds no per-call state and is safe for concurrent use as long as its
// sources are.
type Service struct {
	ratings RatingSource
	vectors VectorSource
	builder ProfileBuilder
	policy  string
	logger  *zap.Logger

	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	omissions *prometheus.CounterVec
}

// New creates a scoring service. policy is only used as a log and metric label.
func New(
	ratings RatingSource, vectors VectorSource, builder ProfileBuilder,
	policy string, logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		ratings: ratings,
		vectors: vectors,
		builder: builder,
		policy:  policy,
		logger:  logger,
	}
}

// WithMetrics attaches Prometheus collectors. Any of them may be nil.
// requests is labeled ("policy", "status"), duration ("policy"),
// omissions ("stage", "reason").
func (s *Service) WithMetrics(
	requests *prometheus.CounterVec, duration *prometheus.HistogramVec, omissions *prometheus.CounterVec,
) *Service {
	s.requests = requests
	s.duration = duration
	s.omissions = omissions
	return s
}

// Score computes a similarity score for each candidate item.
// An unknown user yields an empty result. Candidates without a tag vector,
// or whose cosine is undefined, are left out of the scores and listed in
// the result's omissions instead.
func (s *Service) Score(ctx context.Context, userID int64, candidates []int64) (domscore.Result, error) {
	start := time.Now()
	log := logpkg.FromContextOr(ctx, s.logger).With(zap.Int64("user_id", userID))

	res, status, err := s.score(ctx, log, userID, candidates)
	s.observe(status, time.Since(start))
	if err != nil {
		return domscore.Result{}, err
	}

	log.Debug("Scored candidates",
		zap.String("policy", s.policy),
		zap.Int("candidates", len(candidates)),
		zap.Int("scored", res.Len()),
		zap.Int("omitted", len(res.Omitted())),
		zap.Duration("latency", time.Since(start)),
	)
	return res, nil
}

func (s *Service) score(
	ctx context.Context, log *zap.Logger, userID int64, candidates []int64,
) (domscore.Result, string, error) {
	ratings, err := s.ratings.Ratings(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrUnknownUser) {
		return domscore.Result{}, "error", fmt.Errorf("get ratings for user %d: %w", userID, err)
	}
	if len(ratings) == 0 {
		log.Debug("No rating history, returning empty result")
		return domscore.NewResult(0), "unknown_user", nil
	}

	profile, err := s.builder.Build(logpkg.ContextWithLogger(ctx, log), ratings)
	if err != nil {
		return domscore.Result{}, "error", fmt.Errorf("build profile for user %d: %w", userID, err)
	}
	profileNormSq := profile.SquaredNorm()

	items := uniqueIDs(candidates)
	vecs, err := s.fetchVectors(ctx, items)
	if err != nil {
		return domscore.Result{}, "error", err
	}

	res := domscore.NewResult(len(items))
	for _, itemID := range items {
		iv, ok := vecs[itemID]
		if !ok {
			s.omit(log, &res, itemID, domain.NewMissingVector(itemID))
			continue
		}

		sim, ok := vector.CosineWithNorms(iv, profile, iv.SquaredNorm(), profileNormSq)
		if !ok {
			s.omit(log, &res, itemID, domain.ErrDegenerateNorm)
			continue
		}
		res.Set(itemID, sim)
	}
	return res, "ok", nil
}

// fetchVectors loads candidate vectors, in one batch when the source
// supports it. Missing vectors are absent from the returned map.
func (s *Service) fetchVectors(ctx context.Context, items []int64) (map[int64]vector.Sparse, error) {
	if bs, ok := s.vectors.(BatchVectorSource); ok {
		vecs, err := bs.Vectors(ctx, items)
		if err != nil {
			return nil, fmt.Errorf("get candidate vectors: %w", err)
		}
		return vecs, nil
	}

	vecs := make(map[int64]vector.Sparse, len(items))
	for _, itemID := range items {
		iv, err := s.vectors.Vector(ctx, itemID)
		if err != nil {
			if errors.Is(err, domain.ErrMissingVector) {
				continue
			}
			return nil, fmt.Errorf("get tag vector for item %d: %w", itemID, err)
		}
		vecs[itemID] = iv
	}
	return vecs, nil
}

func (s *Service) omit(log *zap.Logger, res *domscore.Result, itemID int64, reason error) {
	res.Omit(itemID, reason)
	label := domain.OmissionReason(reason)
	if s.omissions != nil {
		s.omissions.WithLabelValues("score", label).Inc()
	}
	log.Debug("Skipping candidate", zap.Int64("item_id", itemID), zap.String("reason", label))
}

func (s *Service) observe(status string, elapsed time.Duration) {
	if s.requests != nil {
		s.requests.WithLabelValues(s.policy, status).Inc()
	}
	if s.duration != nil {
		s.duration.WithLabelValues(s.policy).Observe(elapsed.Seconds())
	}
}

// uniqueIDs drops duplicate candidates, keeping first-seen order.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
