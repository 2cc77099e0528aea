// Package config loads and validates the pipeline configuration file.
package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"synod/pkg/domain"
)

// Duration parses YAML strings like "45s" or "2m" into a time.Duration.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std converts back to the standard duration type.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// PipelineConfig controls the kernel: retry budget, per-stage timeout
// and how many bull/bear rounds the deliberation chain unrolls.
type PipelineConfig struct {
	MaxAttempts  int      `yaml:"max_attempts"`
	StageTimeout Duration `yaml:"stage_timeout"`
	DebateRounds int      `yaml:"debate_rounds"`
}

// RedisConfig holds the connection settings for the Redis report cache.
type RedisConfig struct {
	Addr     string   `yaml:"addr"`
	Password string   `yaml:"password"`
	DB       int      `yaml:"db"`
	TTL      Duration `yaml:"ttl"`
	Prefix   string   `yaml:"prefix"`
}

// CacheConfig selects the report cache backend and its at-rest
// middlewares.
type CacheConfig struct {
	Backend string      `yaml:"backend"` // "memory" or "redis"
	Redis   RedisConfig `yaml:"redis"`

	// EncryptionKey, when set, encrypts cached reports at rest.
	// Base64-encoded 32-byte AES-256 key.
	EncryptionKey string `yaml:"encryption_key"`

	// RedactPatterns are regular expressions masked out of reports
	// before they are cached.
	RedactPatterns []string `yaml:"redact_patterns"`
}

// DecodeEncryptionKey returns the decoded at-rest key, or nil when
// encryption is not configured.
func (c CacheConfig) DecodeEncryptionKey() ([]byte, error) {
	if c.EncryptionKey == "" {
		return nil, nil
	}
	key, err := base64.StdEncoding.DecodeString(c.EncryptionKey)
	if err != nil {
		return nil, &domain.ConfigError{Field: "cache.encryption_key", Reason: "not valid base64"}
	}
	if len(key) != 32 {
		return nil, &domain.ConfigError{Field: "cache.encryption_key", Reason: "must decode to 32 bytes (AES-256)"}
	}
	return key, nil
}

// AdaptersConfig carries free-form parameter maps for the adapter
// implementations. Each adapter decodes its own map into a typed
// params struct; unknown keys are rejected there, not here.
type AdaptersConfig struct {
	Trader map[string]any `yaml:"trader"`
	Oracle map[string]any `yaml:"oracle"`
}

// TraderParams are the decoded trader adapter parameters.
type TraderParams struct {
	BaseConfidence    float64 `mapstructure:"base_confidence"`
	RevisedConfidence float64 `mapstructure:"revised_confidence"`
}

// OracleParams are the decoded reflection oracle parameters.
type OracleParams struct {
	ConfidenceCeiling float64 `mapstructure:"confidence_ceiling"`
}

// Config is the root of the configuration file.
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline"`
	Cache    CacheConfig    `yaml:"cache"`
	Adapters AdaptersConfig `yaml:"adapters"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Pipeline: PipelineConfig{
			MaxAttempts:  3,
			StageTimeout: Duration(45 * time.Second),
			DebateRounds: 2,
		},
		Cache: CacheConfig{
			Backend: "memory",
		},
	}
}

// Load reads a YAML configuration file, applying defaults for anything
// the file omits. A missing file at the default path is not an error;
// the caller decides whether an explicitly requested path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration invariants.
func (c Config) Validate() error {
	if c.Pipeline.MaxAttempts < 1 {
		return &domain.ConfigError{Field: "pipeline.max_attempts", Reason: "must be at least 1"}
	}
	if c.Pipeline.StageTimeout < 0 {
		return &domain.ConfigError{Field: "pipeline.stage_timeout", Reason: "must not be negative"}
	}
	if c.Pipeline.DebateRounds < 1 {
		return &domain.ConfigError{Field: "pipeline.debate_rounds", Reason: "must be at least 1"}
	}
	switch c.Cache.Backend {
	case "memory":
	case "redis":
		if c.Cache.Redis.Addr == "" {
			return &domain.ConfigError{Field: "cache.redis.addr", Reason: "required when backend is redis"}
		}
	default:
		return &domain.ConfigError{
			Field:  "cache.backend",
			Reason: fmt.Sprintf("unknown backend %q, want memory or redis", c.Cache.Backend),
		}
	}
	if _, err := c.Cache.DecodeEncryptionKey(); err != nil {
		return err
	}
	for _, pattern := range c.Cache.RedactPatterns {
		if _, err := regexp.Compile(pattern); err != nil {
			return &domain.ConfigError{
				Field:  "cache.redact_patterns",
				Reason: fmt.Sprintf("invalid pattern %q: %v", pattern, err),
			}
		}
	}
	return nil
}

// DecodeTraderParams decodes the trader parameter map, filling defaults
// for anything unset.
func (c Config) DecodeTraderParams() (TraderParams, error) {
	params := TraderParams{BaseConfidence: 0.9, RevisedConfidence: 0.72}
	if err := decodeParams("adapters.trader", c.Adapters.Trader, &params); err != nil {
		return TraderParams{}, err
	}
	if params.BaseConfidence <= 0 || params.BaseConfidence > 1 {
		return TraderParams{}, &domain.ConfigError{Field: "adapters.trader.base_confidence", Reason: "must be in (0, 1]"}
	}
	if params.RevisedConfidence <= 0 || params.RevisedConfidence > 1 {
		return TraderParams{}, &domain.ConfigError{Field: "adapters.trader.revised_confidence", Reason: "must be in (0, 1]"}
	}
	return params, nil
}

// DecodeOracleParams decodes the oracle parameter map, filling defaults
// for anything unset.
func (c Config) DecodeOracleParams() (OracleParams, error) {
	params := OracleParams{ConfidenceCeiling: 0.85}
	if err := decodeParams("adapters.oracle", c.Adapters.Oracle, &params); err != nil {
		return OracleParams{}, err
	}
	if params.ConfidenceCeiling <= 0 || params.ConfidenceCeiling > 1 {
		return OracleParams{}, &domain.ConfigError{Field: "adapters.oracle.confidence_ceiling", Reason: "must be in (0, 1]"}
	}
	return params, nil
}

func decodeParams(field string, raw map[string]any, out any) error {
	if len(raw) == 0 {
		return nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
	})
	if err != nil {
		return fmt.Errorf("failed to build params decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return &domain.ConfigError{Field: field, Reason: err.Error()}
	}
	return nil
}
