package ratelimit

import (
	"time"

	"github.com/jonathan/devfolio/internal/config"
)

// EndpointConfig represents rate limiting configuration for a group of routes.
type EndpointConfig struct {
	Pattern string        // Route pattern: "*" matches one path segment, a trailing "/" matches a prefix
	Method  string        // HTTP method (GET, HEAD, ...)
	Limit   int           // Maximum requests per window; 0 means unlimited
	Window  time.Duration // Time window
	Burst   int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration // Buckets unused for this long are dropped
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// LoadConfig loads rate limiting configuration from RATE_LIMIT_* environment variables.
func LoadConfig() *Config {
	if !config.EnvBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    config.EnvInt("RATE_LIMIT_DEFAULT_LIMIT", 600),
		DefaultWindow:   config.EnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: config.EnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		IdleTTL:         config.EnvDuration("RATE_LIMIT_IDLE_TTL", time.Hour),
		Whitelist:       ipSet(config.EnvList("RATE_LIMIT_WHITELIST")),
		Blacklist:       ipSet(config.EnvList("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the per-route tiers.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: image work (decode and stream full screenshots)
		{Pattern: "/project/*/images/*/download", Method: "GET", Limit: 30, Window: time.Minute, Burst: 5},
		{Pattern: "/api/projects/*/images/*/theme", Method: "GET", Limit: 60, Window: time.Minute, Burst: 10},

		// Tier 2: JSON API
		{Pattern: "/api/", Method: "GET", Limit: 300, Window: time.Minute, Burst: 50},

		// Tier 3: static assets (unlimited)
		{Pattern: "/assets/", Method: "GET", Limit: 0},

		// Tier 4: pages use the default limit; /health is unlimited via the matcher
	}
}

func ipSet(ips []string) map[string]bool {
	result := make(map[string]bool, len(ips))
	for _, ip := range ips {
		result[ip] = true
	}
	return result
}
