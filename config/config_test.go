package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lodging/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 60, cfg.Cache.TTL)
	assert.Equal(t, 4, cfg.Occupancy.ReconcileConcurrency)
	assert.Equal(t, 5000, cfg.Occupancy.LockTimeoutMs)
	assert.Equal(t, 15, cfg.JWT.AccessExpireMin)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("OCCUPANCY_LOCK_TIMEOUT_MS", "250")
	t.Setenv("APP_RATE_LIMITER_ENABLE", "true")
	t.Setenv("APP_CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 250, cfg.Occupancy.LockTimeoutMs)
	assert.True(t, cfg.App.RateLimiter.Enable)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.CORS.AllowedOrigins)
}

func TestLoad_Malformed(t *testing.T) {
	t.Setenv("OCCUPANCY_RECONCILE_CONCURRENCY", "many")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		cfg := &config.Config{}
		cfg.JWT.AccessSecret = "access"
		cfg.JWT.RefreshSecret = "refresh"
		cfg.Occupancy.ReconcileConcurrency = 4
		cfg.Occupancy.LockTimeoutMs = 5000

		return cfg
	}

	assert.NoError(t, valid().Validate())

	noSecret := valid()
	noSecret.JWT.RefreshSecret = ""
	assert.ErrorIs(t, noSecret.Validate(), config.ErrMissingJWTSecret)

	both := valid()
	both.JWT.AccessSecret = ""
	both.Occupancy.LockTimeoutMs = 0
	err := both.Validate()
	assert.ErrorIs(t, err, config.ErrMissingJWTSecret)
	assert.ErrorIs(t, err, config.ErrInvalidOccupancy)
}
