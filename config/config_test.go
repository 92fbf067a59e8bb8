package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		DBL: DBLConfig{
			Token:   "secret",
			BotID:   "264811613708746752",
			BaseURL: "https://top.gg/api",
			Timeout: 30 * time.Second,
			Workers: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		errContains string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing token", mutate: func(c *Config) { c.DBL.Token = "" }, errContains: "dbl.token"},
		{name: "placeholder token", mutate: func(c *Config) { c.DBL.Token = "your-token-here" }, errContains: "dbl.token"},
		{name: "missing bot id", mutate: func(c *Config) { c.DBL.BotID = "" }, errContains: "dbl.bot_id"},
		{name: "bad base url", mutate: func(c *Config) { c.DBL.BaseURL = "not a url" }, errContains: "dbl.base_url"},
		{name: "no workers", mutate: func(c *Config) { c.DBL.Workers = 0 }, errContains: "dbl.workers"},
		{
			name: "rate without burst",
			mutate: func(c *Config) {
				c.DBL.RateLimit.RPS = 5
			},
			errContains: "burst",
		},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "trace" }, errContains: "invalid logging level"},
		{name: "bad format", mutate: func(c *Config) { c.Logging.Format = "xml" }, errContains: "invalid logging format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := validate(cfg)
			if tt.errContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestLoad_File(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
dbl:
  token: file-token
  bot_id: "123"
  timeout: 5s
  rate_limit:
    rps: 2
    burst: 4
logging:
  level: debug
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-token", cfg.DBL.Token)
	assert.Equal(t, "123", cfg.DBL.BotID)
	assert.Equal(t, 5*time.Second, cfg.DBL.Timeout)
	assert.Equal(t, 2, cfg.DBL.RateLimit.RPS)
	assert.Equal(t, 4, cfg.DBL.RateLimit.Burst)
	assert.Equal(t, "https://top.gg/api", cfg.DBL.BaseURL)
	assert.Equal(t, 10, cfg.DBL.Workers)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)

	assert.Len(t, cfg.ClientOptions(), 4)
}

func TestLoad_EnvWithoutFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DBLIST_DBL_TOKEN", "env-token")
	t.Setenv("DBLIST_DBL_BOT_ID", "456")
	t.Setenv("DBLIST_LOGGING_FORMAT", "json")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.DBL.Token)
	assert.Equal(t, "456", cfg.DBL.BotID)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DBLIST_DBL_TOKEN", "env-token")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dbl:\n  token: file-token\n  bot_id: \"1\"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.DBL.Token)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DBLIST_DBL_TOKEN", "")
	t.Setenv("DBLIST_DBL_BOT_ID", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dbl.token")
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
