// Package config loads dq-engine configuration from config.yaml with
// environment variable overrides. Secrets (API keys, database passwords)
// must only come from environment variables.
package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for dq-engine.
type Config struct {
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8090"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	Sampling   SamplingConfig   `yaml:"sampling"`
	Discovery  DiscoveryConfig  `yaml:"discovery"`
	Ingest     IngestConfig     `yaml:"ingest"`
	Rules      RulesConfig      `yaml:"rules"`
	Advice     AdviceConfig     `yaml:"advice"`
}

// SamplingConfig bounds how many rows profiling and discovery examine.
// The effective sample is min(rowCount, max(cap, ceil(sqrt(rowCount))*scale)).
type SamplingConfig struct {
	Cap   int `yaml:"cap" env:"SAMPLING_CAP" env-default:"1000"`
	Scale int `yaml:"scale" env:"SAMPLING_SCALE" env-default:"10"`
}

// DiscoveryConfig holds relationship-discovery thresholds.
type DiscoveryConfig struct {
	// CandidateKeyUniquenessPct is the minimum sampled uniqueness for a
	// column (set) to qualify as a candidate key.
	CandidateKeyUniquenessPct float64 `yaml:"candidate_key_uniqueness_pct" env:"DISCOVERY_CANDIDATE_KEY_UNIQUENESS_PCT" env-default:"98"`
	// FKOverlapPct is the minimum value-set overlap to declare an inferred
	// foreign key from value matching alone.
	FKOverlapPct float64 `yaml:"fk_overlap_pct" env:"DISCOVERY_FK_OVERLAP_PCT" env-default:"80"`
	// FKNameHintOverlapPct is the relaxed overlap floor applied when column
	// naming also points at the target (e.g. user_id -> users.id).
	FKNameHintOverlapPct float64 `yaml:"fk_name_hint_overlap_pct" env:"DISCOVERY_FK_NAME_HINT_OVERLAP_PCT" env-default:"50"`
	// MinDistinctForFK excludes low-cardinality source columns (flags,
	// enums) from foreign-key inference.
	MinDistinctForFK int `yaml:"min_distinct_for_fk" env:"DISCOVERY_MIN_DISTINCT_FOR_FK" env-default:"3"`
}

// IngestConfig bounds datasource ingestion.
type IngestConfig struct {
	// MaxRows caps how many rows a datasource pull loads into a dataset.
	MaxRows int `yaml:"max_rows" env:"INGEST_MAX_ROWS" env-default:"50000"`
}

// RulesConfig points at optional cross-field rule assets.
type RulesConfig struct {
	// Path is a YAML file of cross-field rule definitions. Empty means
	// built-in rules only.
	Path string `yaml:"path" env:"RULES_PATH" env-default:""`
}

// AdviceConfig configures the LLM advice collaborator. The engine runs fine
// without it; advice endpoints report unavailable when no provider is set.
type AdviceConfig struct {
	Provider string `yaml:"provider" env:"ADVICE_PROVIDER" env-default:""` // "anthropic" or "openai"
	Endpoint string `yaml:"endpoint" env:"ADVICE_ENDPOINT" env-default:""`
	Model    string `yaml:"model" env:"ADVICE_MODEL" env-default:""`
	APIKey   string `yaml:"-" env:"ADVICE_API_KEY"` // Secret - not in YAML
}

// IsAvailable returns true if an advice provider is configured.
func (c *AdviceConfig) IsAvailable() bool {
	return c.Provider != "" && c.Model != ""
}

// Load reads configuration from config.yaml with environment variable
// overrides. The version parameter is injected at build time.
func Load(version string) (*Config, error) {
	cfg := &Config{Version: version}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Sampling.Cap <= 0 {
		return fmt.Errorf("sampling cap must be positive, got %d", c.Sampling.Cap)
	}
	if c.Sampling.Scale <= 0 {
		return fmt.Errorf("sampling scale must be positive, got %d", c.Sampling.Scale)
	}
	if c.Discovery.FKOverlapPct < 0 || c.Discovery.FKOverlapPct > 100 {
		return fmt.Errorf("fk overlap pct must be in [0,100], got %g", c.Discovery.FKOverlapPct)
	}
	if c.Discovery.CandidateKeyUniquenessPct < 0 || c.Discovery.CandidateKeyUniquenessPct > 100 {
		return fmt.Errorf("candidate key uniqueness pct must be in [0,100], got %g", c.Discovery.CandidateKeyUniquenessPct)
	}
	return nil
}
