package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, "Deorganized", cfg.AppName)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 5*time.Minute, cfg.ChallengeTTL)
	assert.Equal(t, 5*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 120*time.Hour, cfg.RefreshTTL)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("STACKSAUTH_LISTEN_ADDR", ":8081")
	t.Setenv("STACKSAUTH_APP_NAME", "MyApp")
	t.Setenv("STACKSAUTH_CHALLENGE_TTL", "90s")
	t.Setenv("STACKSAUTH_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.ListenAddr)
	assert.Equal(t, "MyApp", cfg.AppName)
	assert.Equal(t, 90*time.Second, cfg.ChallengeTTL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsNonPositiveTTLs(t *testing.T) {
	t.Setenv("STACKSAUTH_CHALLENGE_TTL", "0s")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsNonPositiveTokenTTLs(t *testing.T) {
	t.Setenv("STACKSAUTH_ACCESS_TTL", "-5m")

	_, err := Load()
	assert.Error(t, err)
}
