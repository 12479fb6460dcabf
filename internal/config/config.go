// Package config loads the engine's runtime configuration: index/registry
// paths, ranking defaults, the activation log location, and the scoring
// weight overrides, as an explicit immutable configuration record rather
// than scattered literals.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	yaml "go.yaml.in/yaml/v3"

	"github.com/Emasoft/perfect-skill-suggester/internal/score"
)

// fileConfig mirrors the optional YAML config file on disk. All fields are
// optional; omitted fields keep their default value.
type fileConfig struct {
	IndexPath       string   `yaml:"index_path"`
	RegistryPath    string   `yaml:"registry_path"`
	ActivationLog   string   `yaml:"activation_log_path"`
	TopK            int      `yaml:"top_k"`
	ProfileTopK     int      `yaml:"profile_top_k"`
	MinScore        *float64 `yaml:"min_score"`
	IncompleteMode  *bool    `yaml:"incomplete_mode"`
	WeightOverrides *Weights `yaml:"weights"`
}

// Weights mirrors score.Weights for YAML override purposes; only the
// fields a test fixture sets are applied over the defaults.
type Weights struct {
	Directory *int     `yaml:"directory"`
	Path      *int     `yaml:"path"`
	Intent    *int     `yaml:"intent"`
	Pattern   *int     `yaml:"pattern"`
	Keyword   *int     `yaml:"keyword"`
	GatePenalty *float64 `yaml:"gate_penalty"`
}

// Config is the engine's normalized, validated runtime configuration.
type Config struct {
	IndexPath      string
	RegistryPath   string
	ActivationLog  string
	TopK           int
	ProfileTopK    int
	MinScore       float64
	IncompleteMode bool
	Weights        score.Weights
}

// Load reads an optional YAML config file, applies environment overrides,
// then validates and fills defaults. An empty configPath is not an error;
// Load falls back to built-in defaults.
func Load(configPath string) (Config, error) {
	cfg := defaultConfig()
	if strings.TrimSpace(configPath) != "" {
		if err := applyYAMLConfig(&cfg, configPath); err != nil {
			return Config{}, err
		}
	}
	applyEnvOverrides(&cfg)
	if err := normalizeAndValidate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func defaultConfig() Config {
	return Config{
		IndexPath:     "skill-index.json",
		RegistryPath:  "domain-registry.json",
		ActivationLog: "",
		TopK:          10,
		ProfileTopK:   12,
		MinScore:      score.DefaultWeights().MinRelativeScore,
		Weights:       score.DefaultWeights(),
	}
}

func applyYAMLConfig(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse yaml config: %w", err)
	}

	if v := strings.TrimSpace(fc.IndexPath); v != "" {
		cfg.IndexPath = v
	}
	if v := strings.TrimSpace(fc.RegistryPath); v != "" {
		cfg.RegistryPath = v
	}
	if v := strings.TrimSpace(fc.ActivationLog); v != "" {
		cfg.ActivationLog = v
	}
	if fc.TopK > 0 {
		cfg.TopK = fc.TopK
	}
	if fc.ProfileTopK > 0 {
		cfg.ProfileTopK = fc.ProfileTopK
	}
	if fc.MinScore != nil {
		cfg.MinScore = *fc.MinScore
	}
	if fc.IncompleteMode != nil {
		cfg.IncompleteMode = *fc.IncompleteMode
	}
	if fc.WeightOverrides != nil {
		applyWeightOverrides(&cfg.Weights, *fc.WeightOverrides)
	}
	return nil
}

func applyWeightOverrides(w *score.Weights, o Weights) {
	if o.Directory != nil {
		w.Directory = *o.Directory
	}
	if o.Path != nil {
		w.Path = *o.Path
	}
	if o.Intent != nil {
		w.Intent = *o.Intent
	}
	if o.Pattern != nil {
		w.Pattern = *o.Pattern
	}
	if o.Keyword != nil {
		w.Keyword = *o.Keyword
	}
	if o.GatePenalty != nil {
		w.GatePenalty = *o.GatePenalty
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("SKILLRANK_INDEX_PATH")); v != "" {
		cfg.IndexPath = v
	}
	if v := strings.TrimSpace(os.Getenv("SKILLRANK_REGISTRY_PATH")); v != "" {
		cfg.RegistryPath = v
	}
	if v := strings.TrimSpace(os.Getenv("SKILLRANK_ACTIVATION_LOG")); v != "" {
		cfg.ActivationLog = v
	}
	if v := strings.TrimSpace(os.Getenv("SKILLRANK_TOP_K")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TopK = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("SKILLRANK_MIN_SCORE")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.MinScore = f
		}
	}
	if v := strings.TrimSpace(strings.ToLower(os.Getenv("SKILLRANK_INCOMPLETE_MODE"))); v != "" {
		cfg.IncompleteMode = v == "1" || v == "true" || v == "yes"
	}
}

func normalizeAndValidate(cfg *Config) error {
	if strings.TrimSpace(cfg.IndexPath) == "" {
		return fmt.Errorf("config: index_path must not be empty")
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 10
	}
	if cfg.ProfileTopK <= 0 {
		cfg.ProfileTopK = 12
	}
	if cfg.MinScore < 0 || cfg.MinScore > 1 {
		return fmt.Errorf("config: min_score must be in [0,1], got %v", cfg.MinScore)
	}
	return nil
}
