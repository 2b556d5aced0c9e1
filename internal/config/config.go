package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"runtime"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds the tagscore configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Cache    CacheConfig    `yaml:"cache"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"` // default: determined by env
}

// DatabaseConfig holds rating and tag vector storage settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver" validate:"oneof=valkey redis memory"` // default: valkey
	Addrs            []string `yaml:"addrs" validate:"required_unless=Driver memory,dive,hostname_port"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db" validate:"min=0"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec" validate:"min=1"`
	KeyPrefix        string   `yaml:"key_prefix"`
	DatasetPath      string   `yaml:"dataset_path" validate:"required_if=Driver memory"`
}

// ScoringConfig holds profile and ranking settings.
type ScoringConfig struct {
	Policy       string `yaml:"policy" validate:"oneof=threshold weighted"` // default: threshold
	DefaultLimit int    `yaml:"default_limit" validate:"min=0"`             // 0 = all scored items
}

// CacheConfig holds the in-process tag vector cache settings.
type CacheConfig struct {
	Enabled    bool  `yaml:"enabled"`
	MaxEntries int64 `yaml:"max_entries" validate:"min=1"`
	TTLSec     int   `yaml:"ttl_sec" validate:"min=0"` // 0 = no expiry
}

// MetricsConfig holds Pushgateway settings. Empty URL disables pushing.
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgateway_url" validate:"omitempty,url"`
	Job            string `yaml:"job"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit YAML file path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes configuration bytes, then applies defaults and validates.
func Parse(data []byte) (Config, error) {
	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = "valkey"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Database.KeyPrefix == "" {
		c.Database.KeyPrefix = "tagscore:"
	}
	if c.Scoring.Policy == "" {
		c.Scoring.Policy = "threshold"
	}
	c.Scoring.Policy = strings.ToLower(c.Scoring.Policy)
	if c.Cache.MaxEntries <= 0 {
		c.Cache.MaxEntries = 100_000
	}
	if c.Metrics.Job == "" {
		c.Metrics.Job = "tagscore"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	err := getValidator().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// getValidator returns a shared validator that reports fields by their yaml names.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

func describe(fe validator.FieldError) string {
	// Namespace is "Config.database.driver"; drop the root type.
	_, path, _ := strings.Cut(fe.Namespace(), ".")

	switch fe.Tag() {
	case "required", "required_if", "required_unless":
		return path + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", path, fe.Param(), fmt.Sprint(fe.Value()))
	case "min":
		return fmt.Sprintf("%s must be at least %s, got %v", path, fe.Param(), fe.Value())
	case "hostname_port":
		return fmt.Sprintf("%s must be host:port, got %q", path, fmt.Sprint(fe.Value()))
	case "url":
		return fmt.Sprintf("%s must be a URL, got %q", path, fmt.Sprint(fe.Value()))
	default:
		return fmt.Sprintf("%s failed %s validation", path, fe.Tag())
	}
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
