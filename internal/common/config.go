package common

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/jobscout/jobscout/internal/interfaces"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Logging     LoggingConfig   `toml:"logging"`
	Storage     StorageConfig   `toml:"storage"`
	Browser     BrowserConfig   `toml:"browser"`
	Scraper     ScraperConfig   `toml:"scraper"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
	Claude      ClaudeConfig    `toml:"claude"`
	Gemini      GeminiConfig    `toml:"gemini"`
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

// BrowserConfig controls the headless browser sessions
type BrowserConfig struct {
	UserAgent         string `toml:"user_agent"`
	Headless          bool   `toml:"headless"`
	NoSandbox         bool   `toml:"no_sandbox"`
	Locale            string `toml:"locale"`
	ViewportWidth     int    `toml:"viewport_width"`
	ViewportHeight    int    `toml:"viewport_height"`
	NavigationTimeout string `toml:"navigation_timeout"` // duration string, default "45s"
	SettleTime        string `toml:"settle_time"`        // post-load wait for client-side rendering
	WaitTimeout       string `toml:"wait_timeout"`       // cap for generic selector waits
}

// ScraperConfig bounds one collection/enrichment run
type ScraperConfig struct {
	MaxPages        int    `toml:"max_pages"`         // offset-paginated result pages per run
	MaxEnrichOffers int    `toml:"max_enrich_offers"` // detail pages visited per run
	DetailDelay     string `toml:"detail_delay"`      // pause between detail visits, default "1.5s"
	ScrollPause     string `toml:"scroll_pause"`      // pause between lazy-load scroll passes
}

// SchedulerConfig controls the per-minute trigger evaluator
type SchedulerConfig struct {
	Enabled      bool   `toml:"enabled"`
	TickSchedule string `toml:"tick_schedule"` // cron expression, default every minute
}

// ClaudeConfig contains Anthropic Claude API configuration (extraction model)
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Timeout     string  `toml:"timeout"`
	Temperature float32 `toml:"temperature"`
	MaxTokens   int     `toml:"max_tokens"`
}

// GeminiConfig contains Google Gemini API configuration (cleanup model)
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Timeout     string  `toml:"timeout"`
	Temperature float32 `toml:"temperature"`
}

// DefaultConfig returns the baseline configuration before file and env merges
func DefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{Path: "./data/jobscout"},
		},
		Browser: BrowserConfig{
			UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			Headless:          true,
			NoSandbox:         true,
			Locale:            "fr-FR",
			ViewportWidth:     1920,
			ViewportHeight:    1080,
			NavigationTimeout: "45s",
			SettleTime:        "3s",
			WaitTimeout:       "10s",
		},
		Scraper: ScraperConfig{
			MaxPages:        3,
			MaxEnrichOffers: 15,
			DetailDelay:     "1.5s",
			ScrollPause:     "500ms",
		},
		Scheduler: SchedulerConfig{
			Enabled:      true,
			TickSchedule: "* * * * *",
		},
		Claude: ClaudeConfig{
			Model:       "claude-sonnet-4-20250514",
			Timeout:     "2m",
			Temperature: 0.2,
			MaxTokens:   8192,
		},
		Gemini: GeminiConfig{
			Model:       "gemini-2.0-flash",
			Timeout:     "1m",
			Temperature: 0.3,
		},
	}
}

// LoadFromFiles loads configuration with the merge order:
// defaults -> file1 -> file2 -> ... -> environment variables.
// Later files override earlier ones.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := DefaultConfig()

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// applyEnvOverrides applies JOBSCOUT_* environment variables on top of the
// merged file configuration.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("JOBSCOUT_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("JOBSCOUT_BADGER_PATH"); v != "" {
		config.Storage.Badger.Path = v
	}
	if v := os.Getenv("JOBSCOUT_CLAUDE_API_KEY"); v != "" {
		config.Claude.APIKey = v
	}
	if v := os.Getenv("JOBSCOUT_GEMINI_API_KEY"); v != "" {
		config.Gemini.APIKey = v
	}
	if v := os.Getenv("JOBSCOUT_SCHEDULER_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			config.Scheduler.Enabled = enabled
		}
	}
	if v := os.Getenv("JOBSCOUT_HEADLESS"); v != "" {
		if headless, err := strconv.ParseBool(v); err == nil {
			config.Browser.Headless = headless
		}
	}
}

// ParseDurationOr parses a duration string, returning the fallback on empty
// or malformed input.
func ParseDurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

// ResolveAPIKey resolves an API key with the priority order:
// environment variable -> KV store -> config fallback.
func ResolveAPIKey(ctx context.Context, kvStorage interfaces.KeyValueStorage, name string, configFallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"anthropic_api_key": {"ANTHROPIC_API_KEY", "JOBSCOUT_CLAUDE_API_KEY"},
		"gemini_api_key":    {"GEMINI_API_KEY", "JOBSCOUT_GEMINI_API_KEY"},
	}

	if envVarNames, ok := keyToEnvMapping[name]; ok {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	if kvStorage != nil {
		apiKey, err := kvStorage.Get(ctx, name)
		if err == nil && apiKey != "" {
			return apiKey, nil
		}
	}

	if configFallback != "" {
		return configFallback, nil
	}

	return "", fmt.Errorf("API key %q not found in environment, KV store, or config", name)
}
