// Package config provides configuration loading and validation for the
// server and CLI. Values come from environment variables, then an optional
// JSON file, then built-in defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v10"
	"go.uber.org/zap/zapcore"
)

// Defaults for fields left empty by both the environment and the config file.
const (
	DefaultPort             = 8080
	DefaultLogLevel         = "info"
	DefaultSnippetLimit     = 1000
	DefaultCORSAllowOrigin  = "*"
	DefaultRequestTimeoutS  = 60
	DefaultRateLimitPerMin  = 30
	DefaultInterviewWorkers = 3
)

// DefaultTrustedDomains are the link targets allowed in generated emails when
// none are configured.
var DefaultTrustedDomains = []string{
	"linkedin.com",
	"github.com",
	"leetcode.com",
	"glassdoor.com",
	"indeed.com",
}

// Config is the process configuration. Zero values mean "not set".
type Config struct {
	APIKey      string `json:"api_key,omitempty" env:"GEMINI_API_KEY"`
	DatabaseURL string `json:"database_url,omitempty" env:"DATABASE_URL"`
	Port        int    `json:"port,omitempty" env:"PORT"`
	LogLevel    string `json:"log_level,omitempty" env:"LOG_LEVEL"`

	// SnippetLimit caps raw model text attached to errors.
	SnippetLimit int `json:"snippet_limit,omitempty" env:"AI_SNIPPET_LIMIT"`
	// RequestTimeoutSeconds bounds one feature request including retries.
	RequestTimeoutSeconds int `json:"request_timeout_seconds,omitempty" env:"AI_REQUEST_TIMEOUT_SECONDS"`

	TrustedDomains   []string `json:"trusted_domains,omitempty" env:"TRUSTED_DOMAINS" envSeparator:","`
	CORSAllowOrigin  string   `json:"cors_allow_origin,omitempty" env:"CORS_ALLOW_ORIGIN"`
	RateLimitPerMin  int      `json:"rate_limit_per_min,omitempty" env:"RATE_LIMIT_PER_MIN"`
	InterviewWorkers int      `json:"interview_workers,omitempty" env:"INTERVIEW_WORKERS"`
}

// Defaults returns a Config holding every built-in default.
func Defaults() Config {
	return Config{
		Port:                  DefaultPort,
		LogLevel:              DefaultLogLevel,
		SnippetLimit:          DefaultSnippetLimit,
		RequestTimeoutSeconds: DefaultRequestTimeoutS,
		TrustedDomains:        append([]string(nil), DefaultTrustedDomains...),
		CORSAllowOrigin:       DefaultCORSAllowOrigin,
		RateLimitPerMin:       DefaultRateLimitPerMin,
		InterviewWorkers:      DefaultInterviewWorkers,
	}
}

// LoadConfig loads configuration from a JSON file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv reads the environment into a Config. Unset variables stay zero.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return &cfg, nil
}

// Load resolves the effective configuration: environment first, then the
// JSON file at path (if non-empty), then defaults. The result is validated.
func Load(path string) (*Config, error) {
	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}

	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		merged := cfg.MergeWithDefaults(*fileCfg)
		cfg = &merged
	}

	resolved := cfg.MergeWithDefaults(Defaults())
	if err := resolved.Validate(); err != nil {
		return nil, err
	}
	return &resolved, nil
}

// Validate checks that the configuration has valid values. Required values
// such as the API key are checked by the commands that need them.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.SnippetLimit < 0 {
		return fmt.Errorf("config error: 'snippet_limit' must be non-negative")
	}
	if c.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'request_timeout_seconds' must be non-negative")
	}
	if c.RateLimitPerMin < 0 {
		return fmt.Errorf("config error: 'rate_limit_per_min' must be non-negative")
	}
	if c.InterviewWorkers < 0 {
		return fmt.Errorf("config error: 'interview_workers' must be non-negative")
	}
	if c.LogLevel != "" {
		if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("config error: invalid 'log_level' %q", c.LogLevel)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.CORSAllowOrigin == "" {
		result.CORSAllowOrigin = defaults.CORSAllowOrigin
	}

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.SnippetLimit == 0 {
		result.SnippetLimit = defaults.SnippetLimit
	}
	if result.RequestTimeoutSeconds == 0 {
		result.RequestTimeoutSeconds = defaults.RequestTimeoutSeconds
	}
	if result.RateLimitPerMin == 0 {
		result.RateLimitPerMin = defaults.RateLimitPerMin
	}
	if result.InterviewWorkers == 0 {
		result.InterviewWorkers = defaults.InterviewWorkers
	}

	if len(result.TrustedDomains) == 0 {
		result.TrustedDomains = append([]string(nil), defaults.TrustedDomains...)
	}

	return result
}
