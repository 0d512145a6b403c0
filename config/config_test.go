package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, values map[string]string) {
	t.Helper()
	for k, v := range values {
		original, had := os.LookupEnv(k)
		require.NoError(t, os.Setenv(k, v))
		t.Cleanup(func() {
			if had {
				os.Setenv(k, original)
			} else {
				os.Unsetenv(k)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	setEnv(t, map[string]string{
		"DATABASE_URL": "postgresql://localhost/modamedidas_test",
		"JWT_SECRET":   "test-secret",
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 200, cfg.RateLimitRequests)
	assert.Equal(t, 10, cfg.AuthRateLimitRequests)
	assert.Equal(t, 15*time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, "local", cfg.StorageDriver)
	assert.True(t, cfg.IsTest())
	assert.Same(t, cfg, GetConfig())
}

func TestLoadOverrides(t *testing.T) {
	setEnv(t, map[string]string{
		"DATABASE_URL":        "file::memory:",
		"DATABASE_DRIVER":     "sqlite",
		"JWT_SECRET":          "test-secret",
		"JWT_EXPIRY":          "1h",
		"RATE_LIMIT_REQUESTS": "5",
		"CORS_ORIGINS":        "https://a.example, https://b.example,",
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 5, cfg.RateLimitRequests)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoadFallsBackOnMalformedNumbers(t *testing.T) {
	setEnv(t, map[string]string{
		"DATABASE_URL":        "postgresql://localhost/modamedidas_test",
		"JWT_SECRET":          "test-secret",
		"RATE_LIMIT_REQUESTS": "lots",
		"RATE_LIMIT_WINDOW":   "soon",
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.RateLimitRequests)
	assert.Equal(t, 15*time.Minute, cfg.RateLimitWindow)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			DatabaseURL:           "postgresql://localhost/x",
			DatabaseDriver:        "postgres",
			JWTSecret:             "secret",
			StorageDriver:         "local",
			RateLimitRequests:     1,
			AuthRateLimitRequests: 1,
			RateLimitWindow:       time.Minute,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing database url", mutate: func(c *Config) { c.DatabaseURL = "" }, wantErr: "DATABASE_URL"},
		{name: "unknown driver", mutate: func(c *Config) { c.DatabaseDriver = "mysql" }, wantErr: "DATABASE_DRIVER"},
		{name: "missing secret", mutate: func(c *Config) { c.JWTSecret = "" }, wantErr: "JWT_SECRET"},
		{name: "s3 without bucket", mutate: func(c *Config) { c.StorageDriver = "s3" }, wantErr: "AWS_S3_BUCKET"},
		{name: "unknown storage", mutate: func(c *Config) { c.StorageDriver = "ftp" }, wantErr: "STORAGE_DRIVER"},
		{name: "zero rate limit", mutate: func(c *Config) { c.RateLimitRequests = 0 }, wantErr: "rate limits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnvironmentPredicates(t *testing.T) {
	assert.True(t, (&Config{GoEnv: "production"}).IsProduction())
	assert.True(t, (&Config{GoEnv: "development"}).IsDevelopment())
	assert.False(t, (&Config{GoEnv: "test"}).IsProduction())
}
