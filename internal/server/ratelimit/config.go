package ratelimit

import (
	"time"
)

// EndpointConfig is the limit for one route. Paths ending in "/" match as
// prefixes.
type EndpointConfig struct {
	Path   string
	Method string
	// Limit is requests per Window; 0 means unlimited.
	Limit  int
	Window time.Duration
	// Burst is the bucket capacity; 0 means Limit.
	Burst int
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration // how long an unused bucket is kept
	Whitelist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// NewConfig builds the server's limits. Every route that calls the model
// allows aiPerMinute requests per client per minute; a non-positive value
// disables limiting.
func NewConfig(aiPerMinute int, whitelist []string) *Config {
	if aiPerMinute <= 0 {
		return &Config{Enabled: false}
	}

	allowed := make(map[string]bool, len(whitelist))
	for _, ip := range whitelist {
		if ip != "" {
			allowed[ip] = true
		}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Whitelist:       allowed,
		EndpointConfigs: DefaultEndpointConfigs(aiPerMinute),
	}
}

// DefaultEndpointConfigs limits the model-backed routes to aiPerMinute with
// a small burst. Grading and reads fall through to the default limit.
func DefaultEndpointConfigs(aiPerMinute int) []EndpointConfig {
	burst := max(1, aiPerMinute/10)
	ai := func(path string) EndpointConfig {
		return EndpointConfig{Path: path, Method: "POST", Limit: aiPerMinute, Window: time.Minute, Burst: burst}
	}
	return []EndpointConfig{
		ai("/ats/score"),
		ai("/coding/"),
		ai("/interview/"),
		ai("/templates/"),
		{Path: "/coding/grade", Method: "POST", Limit: 600, Window: time.Minute},
	}
}
