package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/s0up4200/dblist/dbl"
)

// EnvPrefix prefixes environment overrides, e.g. DBLIST_DBL_TOKEN
const EnvPrefix = "DBLIST"

// Load loads the configuration from file, .env and environment. A missing
// config file is not an error as long as the environment supplies the
// required values.
func Load(configPath string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".dblist"))
		}

		v.AddConfigPath("/etc/dblist/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers every key so environment overrides reach Unmarshal
func setDefaults(v *viper.Viper) {
	v.SetDefault("dbl.token", "")
	v.SetDefault("dbl.bot_id", "")
	v.SetDefault("dbl.base_url", dbl.DefaultBaseURL)
	v.SetDefault("dbl.timeout", 30*time.Second)
	v.SetDefault("dbl.workers", dbl.DefaultWorkers)
	v.SetDefault("dbl.rate_limit.rps", 0)
	v.SetDefault("dbl.rate_limit.burst", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s failed on '%s'", fieldKey(fe.Namespace()), fe.Tag())
		}
		return err
	}

	if cfg.DBL.Token == "your-token-here" {
		return fmt.Errorf("dbl.token must be set to a valid API token")
	}

	if cfg.DBL.RateLimit.RPS > 0 && cfg.DBL.RateLimit.Burst == 0 {
		return fmt.Errorf("dbl.rate_limit.burst must be set when rps is")
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}

// fieldKeys maps validator namespaces to config keys
var fieldKeys = map[string]string{
	"Config.DBL.Token":           "dbl.token",
	"Config.DBL.BotID":           "dbl.bot_id",
	"Config.DBL.BaseURL":         "dbl.base_url",
	"Config.DBL.Timeout":         "dbl.timeout",
	"Config.DBL.Workers":         "dbl.workers",
	"Config.DBL.RateLimit.RPS":   "dbl.rate_limit.rps",
	"Config.DBL.RateLimit.Burst": "dbl.rate_limit.burst",
}

func fieldKey(namespace string) string {
	if key, ok := fieldKeys[namespace]; ok {
		return key
	}
	return namespace
}

// ClientOptions translates the config into dbl client options
func (c *Config) ClientOptions() []dbl.Option {
	opts := []dbl.Option{
		dbl.WithWorkers(c.DBL.Workers),
	}

	if c.DBL.BaseURL != "" {
		opts = append(opts, dbl.WithBaseURL(c.DBL.BaseURL))
	}
	if c.DBL.Timeout > 0 {
		opts = append(opts, dbl.WithTimeout(c.DBL.Timeout))
	}
	if c.DBL.RateLimit.RPS > 0 {
		opts = append(opts, dbl.WithRateLimit(c.DBL.RateLimit.RPS, c.DBL.RateLimit.Burst))
	}

	return opts
}
