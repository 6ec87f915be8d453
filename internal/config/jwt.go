package config

import (
	"fmt"
	"os"
	"time"
)

// Session token settings come from the environment only, never from the
// config file.
const (
	EnvJWTSecret = "JWT_SECRET"
	EnvJWTTTL    = "JWT_TTL"

	// DefaultJWTTTL matches the default lifetime of persisted session state.
	DefaultJWTTTL = 7 * 24 * time.Hour
	minJWTSecret  = 16
)

// JWTConfig signs and checks the bearer tokens that name a server session.
type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// NewJWTConfig reads JWT_SECRET (required) and JWT_TTL, a Go duration such as
// "12h" that defaults to DefaultJWTTTL.
func NewJWTConfig() (*JWTConfig, error) {
	cfg := &JWTConfig{Secret: os.Getenv(EnvJWTSecret), TTL: DefaultJWTTTL}

	if v := os.Getenv(EnvJWTTTL); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvJWTTTL, err)
		}
		cfg.TTL = ttl
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the secret length and that tokens live at least a minute.
func (c *JWTConfig) Validate() error {
	switch {
	case c.Secret == "":
		return fmt.Errorf("%s is required but not set", EnvJWTSecret)
	case len(c.Secret) < minJWTSecret:
		return fmt.Errorf("%s must be at least %d characters", EnvJWTSecret, minJWTSecret)
	case c.TTL < time.Minute:
		return fmt.Errorf("%s must be at least 1m, got %s", EnvJWTTTL, c.TTL)
	}
	return nil
}
