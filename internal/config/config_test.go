package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Database.Driver != "valkey" {
		t.Errorf("expected Driver=valkey, got %q", cfg.Database.Driver)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.Database.KeyPrefix != "tagscore:" {
		t.Errorf("expected KeyPrefix='tagscore:', got %q", cfg.Database.KeyPrefix)
	}
	if cfg.Scoring.Policy != "threshold" {
		t.Errorf("expected Policy=threshold, got %q", cfg.Scoring.Policy)
	}
	if cfg.Cache.MaxEntries != 100_000 {
		t.Errorf("expected MaxEntries=100000, got %d", cfg.Cache.MaxEntries)
	}
	if cfg.Metrics.Job != "tagscore" {
		t.Errorf("expected Job=tagscore, got %q", cfg.Metrics.Job)
	}
}

func TestApplyDefaults_PreservesExisting(t *testing.T) {
	cfg := Config{
		Database: DatabaseConfig{KeyPrefix: "custom:", Driver: "redis"},
		Scoring:  ScoringConfig{Policy: "Weighted"},
	}
	cfg.ApplyDefaults()

	if cfg.Database.KeyPrefix != "custom:" {
		t.Errorf("expected KeyPrefix='custom:', got %q", cfg.Database.KeyPrefix)
	}
	if cfg.Database.Driver != "redis" {
		t.Errorf("expected Driver=redis, got %q", cfg.Database.Driver)
	}
	if cfg.Scoring.Policy != "weighted" {
		t.Errorf("expected lowercased policy, got %q", cfg.Scoring.Policy)
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{
			name:   "unknown driver",
			mutate: func(c *Config) { c.Database.Driver = "postgres" },
			want:   `database.driver must be one of [valkey redis memory], got "postgres"`,
		},
		{
			name:   "missing addrs",
			mutate: func(c *Config) { c.Database.Addrs = nil },
			want:   "database.addrs is required",
		},
		{
			name:   "bad addr",
			mutate: func(c *Config) { c.Database.Addrs = []string{"localhost"} },
			want:   `database.addrs[0] must be host:port, got "localhost"`,
		},
		{
			name:   "memory without dataset",
			mutate: func(c *Config) { c.Database.Driver = "memory" },
			want:   "database.dataset_path is required",
		},
		{
			name:   "unknown policy",
			mutate: func(c *Config) { c.Scoring.Policy = "popular" },
			want:   `scoring.policy must be one of [threshold weighted], got "popular"`,
		},
		{
			name:   "negative limit",
			mutate: func(c *Config) { c.Scoring.DefaultLimit = -1 },
			want:   "scoring.default_limit must be at least 0, got -1",
		},
		{
			name:   "bad pushgateway url",
			mutate: func(c *Config) { c.Metrics.PushgatewayURL = "not a url" },
			want:   `metrics.pushgateway_url must be a URL, got "not a url"`,
		},
		{
			name:   "bad log level",
			mutate: func(c *Config) { c.Logging.Level = "verbose" },
			want:   `logging.level must be one of [debug info warn error], got "verbose"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tt.want {
				t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), tt.want)
			}
		})
	}
}

func TestValidate_MemoryDriverNeedsNoAddrs(t *testing.T) {
	cfg := Config{Database: DatabaseConfig{Driver: "memory", DatasetPath: "testdata/dataset.yaml"}}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParse_ExpandsEnvVars(t *testing.T) {
	t.Setenv("TAGSCORE_TEST_ADDR", "valkey:6380")

	cfg, err := Parse([]byte(`
database:
  addrs: ["${TAGSCORE_TEST_ADDR}"]
  password: "${TAGSCORE_TEST_UNSET:-secret}"
scoring:
  policy: weighted
  default_limit: 25
cache:
  enabled: true
  ttl_sec: 60
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Addrs[0] != "valkey:6380" {
		t.Errorf("expected expanded addr, got %q", cfg.Database.Addrs[0])
	}
	if cfg.Database.Password != "secret" {
		t.Errorf("expected default password, got %q", cfg.Database.Password)
	}
	if cfg.Scoring.Policy != "weighted" || cfg.Scoring.DefaultLimit != 25 {
		t.Errorf("unexpected scoring config: %+v", cfg.Scoring)
	}
	if !cfg.Cache.Enabled || cfg.Cache.TTLSec != 60 {
		t.Errorf("unexpected cache config: %+v", cfg.Cache)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("database: [")); err == nil {
		t.Fatal("expected parse error")
	}
	_, err := Parse([]byte("database:\n  driver: valkey\n"))
	if err == nil || !strings.Contains(err.Error(), "database.addrs is required") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoad_Local(t *testing.T) {
	cfg, err := Load("local")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Driver != "valkey" {
		t.Errorf("expected valkey driver in local config, got %q", cfg.Database.Driver)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("does-not-exist"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
