package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServerConfig_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/resume_advisor")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("RATE_LIMIT_PER_MIN", "")

	cfg, err := NewServerConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, 60, cfg.RateLimitPerMin)
}

func TestNewServerConfig_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	cfg, err := NewServerConfig()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestNewServerConfig_InvalidPort(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/resume_advisor")
	t.Setenv("PORT", "not-a-number")

	cfg, err := NewServerConfig()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "invalid PORT")
}

func TestNewServerConfig_PortOutOfRange(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/resume_advisor")
	t.Setenv("PORT", "70000")

	cfg, err := NewServerConfig()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "PORT out of range")
}

func TestNewServerConfig_Origins(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/resume_advisor")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com")

	cfg, err := NewServerConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://app.example.com", "https://staging.example.com"}, cfg.AllowedOrigins)
}

func TestNewServerConfig_RateLimitDisabled(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/resume_advisor")
	t.Setenv("RATE_LIMIT_PER_MIN", "0")

	cfg, err := NewServerConfig()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.RateLimitPerMin)
}

func TestNewServerConfig_NegativeRateLimit(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/resume_advisor")
	t.Setenv("RATE_LIMIT_PER_MIN", "-5")

	cfg, err := NewServerConfig()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "RATE_LIMIT_PER_MIN")
}
