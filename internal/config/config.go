// Package config provides configuration management for the preprocessing tools.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvLogLevel    = "PREPROCESS_LOG_LEVEL"
	EnvDSN         = "PREPROCESS_DSN"
	EnvWorkers     = "PREPROCESS_WORKERS"
	EnvMetricsFile = "PREPROCESS_METRICS_FILE"
)

// Configuration validation errors.
var (
	ErrInvalidWorkers       = errors.New("preprocess.workers must be at least 1")
	ErrInvalidBatchSize     = errors.New("preprocess.batch_size must be at least 1")
	ErrInvalidProgressEvery = errors.New("preprocess.progress_every must be non-negative")
	ErrInvalidOutputFormat  = errors.New("output.format must be one of: jsonl, json, xlsx, sqlite, postgres")
	ErrMissingDSN           = errors.New("output.dsn is required for postgres output")
	ErrInvalidStemmer       = errors.New("tokenizer.stemmer must be 'porter', 'porter-classic' or 'snowball'")
	ErrInvalidStemCache     = errors.New("tokenizer.stem_cache must be non-negative")
	ErrInvalidLogLevel      = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat     = errors.New("logging.format must be 'text' or 'json'")
	ErrInvalidTopN          = errors.New("report.top_brands and report.top_terms must be at least 1")
	ErrInvalidHistogramBins = errors.New("report.histogram_bins must be at least 1")
	ErrInvalidSample        = errors.New("validation.sample must be non-negative")
)

// Config represents the complete preprocessing configuration.
type Config struct {
	Preprocess PreprocessConfig `yaml:"preprocess"`
	Tokenizer  TokenizerConfig  `yaml:"tokenizer"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Report     ReportConfig     `yaml:"report"`
	Validation ValidationConfig `yaml:"validation"`
}

// PreprocessConfig controls the normalization run.
type PreprocessConfig struct {
	Input         string `yaml:"input"`
	Output        string `yaml:"output"`
	Workers       int    `yaml:"workers"`
	BatchSize     int    `yaml:"batch_size"`
	ProgressEvery int    `yaml:"progress_every"`
}

// TokenizerConfig selects tokenizer resources.
type TokenizerConfig struct {
	Stemmer        string   `yaml:"stemmer"`
	ExtraStopwords []string `yaml:"extra_stopwords"`
	StemCache      int      `yaml:"stem_cache"`
}

// OutputConfig defines output behavior.
type OutputConfig struct {
	Format        string `yaml:"format"`
	DSN           string `yaml:"dsn"`
	Table         string `yaml:"table"`
	Sheet         string `yaml:"sheet"`
	PrettyPrint   bool   `yaml:"pretty_print"`
	WriteManifest bool   `yaml:"write_manifest"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig defines where run metrics go.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// ReportConfig controls exploratory statistics.
type ReportConfig struct {
	TopBrands     int `yaml:"top_brands"`
	TopTerms      int `yaml:"top_terms"`
	HistogramBins int `yaml:"histogram_bins"`
}

// ValidationConfig controls the label coverage check.
type ValidationConfig struct {
	Sample int `yaml:"sample"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Preprocess: PreprocessConfig{
			Workers:       1,
			BatchSize:     512,
			ProgressEvery: 10000,
		},
		Tokenizer: TokenizerConfig{
			Stemmer: "porter",
		},
		Output: OutputConfig{
			Table:         "products",
			Sheet:         "products",
			WriteManifest: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Report: ReportConfig{
			TopBrands:     20,
			TopTerms:      50,
			HistogramBins: 20,
		},
		Validation: ValidationConfig{
			Sample: 5,
		},
	}
}

// LoadConfig loads configuration from a YAML file on top of the defaults,
// then applies environment overrides. An empty path skips the file.
func LoadConfig(filepath string) (*Config, error) {
	cfg := Default()

	if filepath != "" {
		data, err := os.ReadFile(filepath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadEnvFiles loads KEY=VALUE files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}

		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}

	return nil
}

// ApplyEnv overrides settings from the PREPROCESS_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}

	if v := os.Getenv(EnvDSN); v != "" {
		c.Output.DSN = v
	}

	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvWorkers, v, err)
		}

		c.Preprocess.Workers = n
	}

	if v := os.Getenv(EnvMetricsFile); v != "" {
		c.Metrics.Textfile = v
	}

	return nil
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Preprocess.Workers < 1 {
		return ErrInvalidWorkers
	}

	if c.Preprocess.BatchSize < 1 {
		return ErrInvalidBatchSize
	}

	if c.Preprocess.ProgressEvery < 0 {
		return ErrInvalidProgressEvery
	}

	switch c.Output.Format {
	case "", "jsonl", "json", "xlsx", "sqlite":
	case "postgres":
		if c.Output.DSN == "" {
			return ErrMissingDSN
		}
	default:
		return ErrInvalidOutputFormat
	}

	switch c.Tokenizer.Stemmer {
	case "", "porter", "porter-classic", "snowball":
	default:
		return ErrInvalidStemmer
	}

	if c.Tokenizer.StemCache < 0 {
		return ErrInvalidStemCache
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	if c.Report.TopBrands < 1 || c.Report.TopTerms < 1 {
		return ErrInvalidTopN
	}

	if c.Report.HistogramBins < 1 {
		return ErrInvalidHistogramBins
	}

	if c.Validation.Sample < 0 {
		return ErrInvalidSample
	}

	return nil
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Workers: %d, Stemmer: %s, Format: %s, Log: %s}",
		c.Preprocess.Workers,
		c.Tokenizer.Stemmer,
		c.Output.Format,
		c.Logging.Level,
	)
}
