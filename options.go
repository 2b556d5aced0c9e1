package tagscore

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver      string // "valkey", "redis" or "memory"
	addrs       []string
	username    string
	password    string
	keyPrefix   string
	datasetPath string

	readinessTimeout time.Duration

	policy Policy

	cacheEntries int64
	cacheTTL     time.Duration

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithValkey configures the client to read from a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis configures the client to read from a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithUsername sets the ACL username for Valkey/Redis.
func WithUsername(username string) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
	})
}

// WithDataset serves ratings and tag vectors from a YAML dataset file
// loaded into memory instead of a database.
func WithDataset(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "memory"
		c.datasetPath = path
	})
}

// WithKeyPrefix sets the key namespace. Default: "tagscore:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithReadinessTimeout bounds the initial database readiness wait.
// Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithPolicy selects how ratings are aggregated into a profile.
// Default: PolicyThreshold.
func WithPolicy(p Policy) Option {
	return optionFunc(func(c *clientConfig) {
		c.policy = p
	})
}

// WithVectorCache keeps up to maxEntries tag vectors in process.
// ttl <= 0 keeps entries until evicted. Disabled by default.
func WithVectorCache(maxEntries int64, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheEntries = maxEntries
		c.cacheTTL = ttl
	})
}

// WithLogger enables structured logging. Omissions are logged at Debug.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers scoring metrics on the given registerer.
// Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
