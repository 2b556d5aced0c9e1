package tagscore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tagscore/internal/db"
	dbRedis "github.com/kailas-cloud/tagscore/internal/db/redis"
	domscore "github.com/kailas-cloud/tagscore/internal/domain/score"
	"github.com/kailas-cloud/tagscore/internal/domain/vector"
	"github.com/kailas-cloud/tagscore/internal/repository/memory"
	ratingrepo "github.com/kailas-cloud/tagscore/internal/repository/rating"
	tagvectorrepo "github.com/kailas-cloud/tagscore/internal/repository/tagvector"
	"github.com/kailas-cloud/tagscore/internal/repository/vcache"
	"github.com/kailas-cloud/tagscore/internal/usecase/profile"
	scoreuc "github.com/kailas-cloud/tagscore/internal/usecase/score"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "tagscore:"
)

// scoreUseCase is satisfied by usecase/score.Service.
type scoreUseCase interface {
	Score(ctx context.Context, userID int64, candidates []int64) (domscore.Result, error)
}

// vectorSource is what the cache, the profile builder and the scorer read.
type vectorSource interface {
	Vector(ctx context.Context, itemID int64) (vector.Sparse, error)
}

// Client is the tagscore SDK entry point. It is safe for concurrent use.
type Client struct {
	store     db.Store // nil unless backed by Valkey or Redis
	cache     *vcache.Cache
	scorer    scoreUseCase
	healthSvc healthUseCase
	policy    Policy
	obs       *opObserver
}

// New creates a Client backed by Valkey, Redis (WithValkey, WithRedis) or
// an in-memory dataset (WithDataset).
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := newClientConfig(opts)

	switch cfg.driver {
	case "":
		return nil, errors.New("tagscore: data source required (use WithValkey, WithRedis or WithDataset)")
	case "memory":
		ratings, vectors, err := memory.LoadDataset(cfg.datasetPath)
		if err != nil {
			return nil, fmt.Errorf("tagscore: %w", err)
		}
		return wireClient(nil, ratings, vectors, cfg)
	case "valkey", "redis":
		// Both speak the same hash commands through rueidis.
	default:
		return nil, fmt.Errorf("tagscore: unknown driver %q", cfg.driver)
	}

	if len(cfg.addrs) == 0 || cfg.addrs[0] == "" {
		return nil, errors.New("tagscore: database address required")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("tagscore: create %s store: %w", cfg.driver, err)
	}

	if err := store.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("tagscore: database not ready: %w", err)
	}

	c, err := wireClient(store,
		ratingrepo.New(store, cfg.keyPrefix),
		tagvectorrepo.New(store, cfg.keyPrefix),
		cfg,
	)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

// NewWithSources creates a Client over caller-supplied ratings and vectors.
// Database options are ignored.
func NewWithSources(ratings RatingSource, vectors VectorSource, opts ...Option) (*Client, error) {
	if ratings == nil || vectors == nil {
		return nil, errors.New("tagscore: rating and vector sources are required")
	}
	cfg := newClientConfig(opts)
	return wireClient(nil, &ratingAdapter{inner: ratings}, &vectorAdapter{inner: vectors}, cfg)
}

func newClientConfig(opts []Option) *clientConfig {
	cfg := &clientConfig{
		keyPrefix:        defaultKeyPrefix,
		readinessTimeout: defaultReadinessTimeout,
		policy:           PolicyThreshold,
	}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	return cfg
}

func wireClient(
	store db.Store, ratings scoreuc.RatingSource, vectors vectorSource, cfg *clientConfig,
) (*Client, error) {
	pol, err := profile.ParsePolicy(string(cfg.policy))
	if err != nil {
		return nil, fmt.Errorf("tagscore: %w", err)
	}

	m := &sdkMetrics{}
	if cfg.metricsReg != nil {
		if m, err = newSDKMetrics(cfg.metricsReg); err != nil {
			return nil, err
		}
	}

	healthSvc := newHealth(store, vectors, cfg.logger)

	var cache *vcache.Cache
	if cfg.cacheEntries > 0 {
		cache, err = vcache.New(vectors, vcache.Config{
			MaxEntries: cfg.cacheEntries,
			TTL:        cfg.cacheTTL,
		}, m.cache, cfg.logger)
		if err != nil {
			return nil, fmt.Errorf("tagscore: %w", err)
		}
		vectors = cache
	}

	builder, err := profile.New(pol, vectors, m.omissions, cfg.logger)
	if err != nil {
		return nil, fmt.Errorf("tagscore: %w", err)
	}
	scorer := scoreuc.New(ratings, vectors, builder, pol.String(), cfg.logger).
		WithMetrics(m.requests, m.duration, m.omissions)

	return &Client{
		store:     store,
		cache:     cache,
		scorer:    scorer,
		healthSvc: healthSvc,
		policy:    Policy(pol),
		obs:       &opObserver{logger: cfg.logger},
	}, nil
}

// Score scores candidate items for a user. A user without ratings gets an
// empty Result and no error. Candidates that cannot be scored are listed in
// Result.Omitted. Duplicate candidates are scored once.
func (c *Client) Score(ctx context.Context, userID int64, items []int64) (res Result, err error) {
	start := time.Now()
	defer func() { c.obs.observe("score", start, err) }()

	r, err := c.scorer.Score(ctx, userID, items)
	if err != nil {
		return Result{}, fmt.Errorf("score user %d: %w", userID, err)
	}
	return Result{res: r}, nil
}

// Policy returns the profile aggregation policy in use.
func (c *Client) Policy() Policy {
	return c.policy
}

// Ping checks database connectivity. Clients without a database always succeed.
func (c *Client) Ping(ctx context.Context) (err error) {
	if c.store == nil {
		return nil
	}
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
	if c.store != nil {
		c.store.Close()
	}
}
