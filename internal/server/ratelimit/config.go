package ratelimit

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path; a trailing "/" matches every path below it
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig reads the RATE_LIMIT_* environment variables. Invalid values
// fall back to the defaults.
func LoadConfig() *Config {
	if !fromEnv("RATE_LIMIT_ENABLED", true, strconv.ParseBool) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    fromEnv("RATE_LIMIT_DEFAULT_LIMIT", 600, strconv.Atoi),
		DefaultWindow:   fromEnv("RATE_LIMIT_DEFAULT_WINDOW", time.Minute, time.ParseDuration),
		CleanupInterval: fromEnv("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute, time.ParseDuration),
		Whitelist:       clientSet(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       clientSet(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(fromEnv("RATE_LIMIT_GENERATE_LIMIT", 20, strconv.Atoi)),
	}
}

// DefaultEndpointConfigs returns the endpoint-specific limits. generateLimit is
// the number of model calls a client may make per hour.
func DefaultEndpointConfigs(generateLimit int) []EndpointConfig {
	return []EndpointConfig{
		// Model calls
		{Path: "/session/generate", Method: "POST", Limit: generateLimit, Window: time.Hour, Burst: 3},

		// Headless browser work
		{Path: "/session/resume.pdf", Method: "GET", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/session/job-description", Method: "PUT", Limit: 30, Window: time.Minute, Burst: 5},

		// Writes
		{Path: "/sessions", Method: "POST", Limit: 30, Window: time.Minute, Burst: 10},
		{Path: "/session/uploads", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/session/example", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
	}
}

// fromEnv returns key parsed by parse, or def when key is unset or invalid.
func fromEnv[T any](key string, def T, parse func(string) (T, error)) T {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		log.Printf("[rate-limit] ignoring %s=%q: %v", key, raw, err)
		return def
	}
	return v
}

// clientSet parses a comma-separated list of client addresses.
func clientSet(list string) map[string]bool {
	set := make(map[string]bool)
	for _, ip := range strings.FieldsFunc(list, func(r rune) bool { return r == ',' }) {
		if ip = strings.TrimSpace(ip); ip != "" {
			set[ip] = true
		}
	}
	return set
}
