package middleware

import (
	"fmt"
	"time"
)

const (
	DefaultTimeout        = 30 * time.Second
	DefaultRateLimitRPS   = 30
	DefaultRateLimitBurst = 60
	DefaultRateLimitIdle  = 10 * time.Minute
)

// Config configures the procedure middlewares built by Stack.
type Config struct {
	// Timeout bounds every call. Zero disables the timeout middleware.
	Timeout     time.Duration     `yaml:"timeout" mapstructure:"timeout"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit" mapstructure:"rate_limit"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
}

// ConcurrencyConfig bounds in-flight calls per procedure path. A slot is
// released when the handler returns, not when a surrounding Timeout gives
// up on the call.
type ConcurrencyConfig struct {
	// MaxInFlight is the number of concurrent calls per path. Zero disables the limit.
	MaxInFlight int `yaml:"max_in_flight" mapstructure:"max_in_flight"`
	// MaxWait is how long a call waits for a slot. Zero fails immediately.
	MaxWait time.Duration `yaml:"max_wait" mapstructure:"max_wait"`
}

// RateLimitConfig configures per-key token buckets.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" mapstructure:"enabled"`
	RPS     float64 `yaml:"rps" mapstructure:"rps"`
	Burst   int     `yaml:"burst" mapstructure:"burst"`
	// IdleTTL is how long an unused key keeps its bucket.
	IdleTTL time.Duration `yaml:"idle_ttl" mapstructure:"idle_ttl"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	c.RateLimit.ApplyDefaults()
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative (got: %s)", c.Timeout)
	}
	if err := c.RateLimit.Validate(); err != nil {
		return fmt.Errorf("rate_limit: %w", err)
	}
	if c.Concurrency.MaxInFlight < 0 || c.Concurrency.MaxWait < 0 {
		return fmt.Errorf("concurrency: limits must not be negative (got: %d, %s)", c.Concurrency.MaxInFlight, c.Concurrency.MaxWait)
	}
	return nil
}

// ApplyDefaults sets default values for unset fields.
func (c *RateLimitConfig) ApplyDefaults() {
	if c.RPS == 0 {
		c.RPS = DefaultRateLimitRPS
	}
	if c.Burst == 0 {
		c.Burst = DefaultRateLimitBurst
	}
	if c.IdleTTL == 0 {
		c.IdleTTL = DefaultRateLimitIdle
	}
}

// Validate checks the configuration. A disabled limiter is always valid.
func (c *RateLimitConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.RPS <= 0 {
		return fmt.Errorf("rps must be positive (got: %v)", c.RPS)
	}
	if c.Burst <= 0 {
		return fmt.Errorf("burst must be positive (got: %d)", c.Burst)
	}
	return nil
}
