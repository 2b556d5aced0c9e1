package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tagscore/internal/config"
	"github.com/kailas-cloud/tagscore/internal/db"
	dbRedis "github.com/kailas-cloud/tagscore/internal/db/redis"
	"github.com/kailas-cloud/tagscore/internal/domain/vector"
	"github.com/kailas-cloud/tagscore/internal/metrics"
	"github.com/kailas-cloud/tagscore/internal/repository/memory"
	ratingrepo "github.com/kailas-cloud/tagscore/internal/repository/rating"
	tagvectorrepo "github.com/kailas-cloud/tagscore/internal/repository/tagvector"
	"github.com/kailas-cloud/tagscore/internal/repository/vcache"
	"github.com/kailas-cloud/tagscore/internal/usecase/profile"
	scoreuc "github.com/kailas-cloud/tagscore/internal/usecase/score"
)

type vectorSource interface {
	Vector(ctx context.Context, itemID int64) (vector.Sparse, error)
}

// app is the composition root of one CLI run.
type app struct {
	cfg    config.Config
	logger *zap.Logger

	store      db.Store // nil for the memory driver
	ratingRepo *ratingrepo.Repo
	vectorRepo *tagvectorrepo.Repo
	cache      *vcache.Cache

	ratings scoreuc.RatingSource
	vectors vectorSource
}

func newApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	switch cfg.Database.Driver {
	case "memory":
		ratings, vectors, err := memory.LoadDataset(cfg.Database.DatasetPath)
		if err != nil {
			return nil, err //nolint:wrapcheck // already names the dataset
		}
		logger.Info("Dataset loaded",
			zap.String("path", cfg.Database.DatasetPath),
			zap.Int("users", len(ratings.Users())),
			zap.Int("vectors", vectors.Len()),
		)
		a.ratings, a.vectors = ratings, vectors
	case "valkey", "redis":
		store, err := openStore(cfg.Database)
		if err != nil {
			return nil, err
		}
		timeout := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, timeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("database not ready: %w", err)
		}
		logger.Info("Connected to database",
			zap.String("driver", cfg.Database.Driver),
			zap.Strings("addrs", cfg.Database.Addrs),
		)
		a.store = store
		a.ratingRepo = ratingrepo.New(store, cfg.Database.KeyPrefix)
		a.vectorRepo = tagvectorrepo.New(store, cfg.Database.KeyPrefix)
		a.ratings, a.vectors = a.ratingRepo, a.vectorRepo
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}

	return a, nil
}

// openStore creates the Valkey/Redis client without waiting for readiness.
func openStore(cfg config.DatabaseConfig) (*dbRedis.Store, error) {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Addrs,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s store: %w", cfg.Driver, err)
	}
	return store, nil
}

// withVectorCache puts the in-process cache in front of the vector source.
func (a *app) withVectorCache() error {
	if !a.cfg.Cache.Enabled || a.cache != nil {
		return nil
	}
	c, err := vcache.New(a.vectors, vcache.Config{
		MaxEntries: a.cfg.Cache.MaxEntries,
		TTL:        time.Duration(a.cfg.Cache.TTLSec) * time.Second,
	}, metrics.VectorCacheTotal, a.logger)
	if err != nil {
		return fmt.Errorf("create vector cache: %w", err)
	}
	a.cache = c
	a.vectors = c
	return nil
}

// scorer wires the profile builder and scoring service for a policy.
func (a *app) scorer(policy string) (*scoreuc.Service, profile.Policy, error) {
	pol, err := profile.ParsePolicy(policy)
	if err != nil {
		return nil, "", err //nolint:wrapcheck // sentinel is self-describing
	}
	builder, err := profile.New(pol, a.vectors, metrics.OmissionsTotal, a.logger)
	if err != nil {
		return nil, "", err //nolint:wrapcheck // sentinel is self-describing
	}
	svc := scoreuc.New(a.ratings, a.vectors, builder, pol.String(), a.logger).
		WithMetrics(metrics.ScoringRequestsTotal, metrics.ScoringDuration, metrics.OmissionsTotal)
	return svc, pol, nil
}

func (a *app) close() {
	if a.cache != nil {
		a.cache.Close()
	}
	if a.store != nil {
		a.store.Close()
	}
}
