package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	DBL     DBLConfig     `mapstructure:"dbl"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// DBLConfig holds the API credentials and client tuning
type DBLConfig struct {
	Token     string          `mapstructure:"token" validate:"required"`
	BotID     string          `mapstructure:"bot_id" validate:"required"`
	BaseURL   string          `mapstructure:"base_url" validate:"omitempty,url"`
	Timeout   time.Duration   `mapstructure:"timeout" validate:"gte=0"`
	Workers   int             `mapstructure:"workers" validate:"gte=1"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig configures the client side token bucket. A zero RPS
// disables throttling.
type RateLimitConfig struct {
	RPS   int `mapstructure:"rps" validate:"gte=0"`
	Burst int `mapstructure:"burst" validate:"gte=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
