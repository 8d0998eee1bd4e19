package common

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string            `toml:"environment"` // "development" or "production"
	Storage     StorageConfig     `toml:"storage"`
	Logging     LoggingConfig     `toml:"logging"`
	LLM         LLMConfig         `toml:"llm"`
	OpenAI      OpenAIConfig      `toml:"openai"`
	Claude      ClaudeConfig      `toml:"claude"`
	Gemini      GeminiConfig      `toml:"gemini"`
	Pipeline    PipelineConfig    `toml:"pipeline"`
	Maintenance MaintenanceConfig `toml:"maintenance"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// LLMConfig selects the default generation provider
type LLMConfig struct {
	DefaultProvider string `toml:"default_provider"` // "openai", "claude", or "gemini"
}

// OpenAIConfig configures the OpenAI-compatible chat completions provider
type OpenAIConfig struct {
	APIKey      string  `toml:"api_key"`
	BaseURL     string  `toml:"base_url"` // Any OpenAI-compatible endpoint
	Model       string  `toml:"model"`
	Temperature float32 `toml:"temperature"`
	MaxTokens   int     `toml:"max_tokens"`
}

type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Temperature float32 `toml:"temperature"`
	MaxTokens   int     `toml:"max_tokens"`
}

type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Temperature float32 `toml:"temperature"`
	MaxTokens   int     `toml:"max_tokens"`
}

// PipelineConfig tunes document processing behavior
type PipelineConfig struct {
	ModuleConcurrency int           `toml:"module_concurrency"` // Modules generated in parallel per batch
	CallTimeout       time.Duration `toml:"call_timeout"`       // Per-LLM-call timeout
	UploadDir         string        `toml:"upload_dir"`         // Root for per-request temp artifacts
}

// MaintenanceConfig configures scheduled cache pruning
type MaintenanceConfig struct {
	Enabled       bool   `toml:"enabled"`
	Schedule      string `toml:"schedule"`       // Cron schedule format
	RetentionDays int    `toml:"retention_days"` // Cached courses older than this are pruned
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/studyforge",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		LLM: LLMConfig{
			DefaultProvider: "openai",
		},
		OpenAI: OpenAIConfig{
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-4o-mini",
			Temperature: 0.7,
			MaxTokens:   4000,
		},
		Claude: ClaudeConfig{
			Model:       "claude-sonnet-4-20250514",
			Temperature: 0.7,
			MaxTokens:   4000,
		},
		Gemini: GeminiConfig{
			Model:       "gemini-2.0-flash",
			Temperature: 0.7,
			MaxTokens:   4000,
		},
		Pipeline: PipelineConfig{
			ModuleConcurrency: 3,
			CallTimeout:       5 * time.Minute,
			UploadDir:         "./data/uploads",
		},
		Maintenance: MaintenanceConfig{
			Enabled:       false,
			Schedule:      "0 3 * * *",
			RetentionDays: 30,
		},
	}
}

// LoadConfig loads configuration from a TOML file, applying defaults first
// and environment variable overrides last.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides for secrets
// so API keys never need to live in config files.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		config.OpenAI.APIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		config.Claude.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		config.Gemini.APIKey = v
	}
	if v := os.Getenv("STUDYFORGE_DATA_DIR"); v != "" {
		config.Storage.Badger.Path = v
	}
}

// Validate checks configuration consistency
func (c *Config) Validate() error {
	switch c.LLM.DefaultProvider {
	case "openai", "claude", "gemini":
	default:
		return fmt.Errorf("invalid llm.default_provider %q (expected openai, claude, or gemini)", c.LLM.DefaultProvider)
	}

	if c.Pipeline.ModuleConcurrency < 1 {
		c.Pipeline.ModuleConcurrency = 3
	}
	if c.Pipeline.CallTimeout <= 0 {
		c.Pipeline.CallTimeout = 5 * time.Minute
	}
	if c.Maintenance.RetentionDays < 1 {
		c.Maintenance.RetentionDays = 30
	}

	return nil
}
