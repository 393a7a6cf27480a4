package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"GO_ENV", "HTTP_PORT", "REQUEST_TIMEOUT", "STORE_DRIVER", "DATABASE_URL",
		"CACHE_ENABLED", "REDIS_URL", "CACHE_TTL", "JWT_SECRET", "RATE_LIMIT_RPS",
		"RATE_LIMIT_BURST", "PROMETHEUS_ENABLED", "LOG_LEVEL", "LOG_FORMAT", "TIME_ZONE",
	} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.GoEnv)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, StoreGorm, cfg.StoreDriver)
	assert.False(t, cfg.CacheEnabled)
	assert.Equal(t, 60, cfg.CacheTTL)
	assert.False(t, cfg.AuthEnabled())
	assert.Equal(t, "Local", cfg.TimeZone)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("TIME_ZONE", "UTC")
	t.Setenv("REDIS_URL", "redis://cache:6379")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.True(t, cfg.CacheEnabled)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, "cache:6379", cfg.RedisAddr())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadConfig_InvalidTypes(t *testing.T) {
	t.Run("Port", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "eighty")
		_, err := LoadConfig()
		assert.Error(t, err)
	})
	t.Run("Bool", func(t *testing.T) {
		t.Setenv("CACHE_ENABLED", "maybe")
		_, err := LoadConfig()
		assert.Error(t, err)
	})
	t.Run("Duration", func(t *testing.T) {
		t.Setenv("REQUEST_TIMEOUT", "soon")
		_, err := LoadConfig()
		assert.Error(t, err)
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			HTTPPort:       8080,
			RequestTimeout: time.Second,
			StoreDriver:    StoreMemory,
			RateLimitRPS:   1,
			RateLimitBurst: 1,
			LogLevel:       "info",
			LogFormat:      "json",
			TimeZone:       "UTC",
		}
	}
	require.NoError(t, valid().Validate())

	cases := map[string]func(c *Config){
		"port":       func(c *Config) { c.HTTPPort = 0 },
		"store":      func(c *Config) { c.StoreDriver = "sqlite" },
		"dsn":        func(c *Config) { c.StoreDriver = StoreGorm; c.DatabaseURL = "" },
		"cache ttl":  func(c *Config) { c.CacheEnabled = true; c.CacheTTL = 0 },
		"jwt secret": func(c *Config) { c.JWTSecret = "short" },
		"rps":        func(c *Config) { c.RateLimitRPS = 0 },
		"log level":  func(c *Config) { c.LogLevel = "trace" },
		"log format": func(c *Config) { c.LogFormat = "xml" },
		"zone":       func(c *Config) { c.TimeZone = "Mars/Olympus_Mons" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
