// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the runtime configuration of the service. All values
// can be overridden through STACKSAUTH_* environment variables.
type Config struct {
	ListenAddr   string
	RedisURL     string
	AppName      string
	LogLevel     string
	ChallengeTTL time.Duration
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
}

// Load reads the configuration from the environment, applying
// defaults for anything unset.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("STACKSAUTH")
	v.AutomaticEnv()

	v.SetDefault("listen_addr", ":9000")
	v.SetDefault("redis_url", "redis://localhost:6379/0")
	v.SetDefault("app_name", "Deorganized")
	v.SetDefault("log_level", "info")
	v.SetDefault("challenge_ttl", "5m")
	v.SetDefault("access_ttl", "5m")
	v.SetDefault("refresh_ttl", "120h")

	cfg := &Config{
		ListenAddr:   v.GetString("listen_addr"),
		RedisURL:     v.GetString("redis_url"),
		AppName:      v.GetString("app_name"),
		LogLevel:     v.GetString("log_level"),
		ChallengeTTL: v.GetDuration("challenge_ttl"),
		AccessTTL:    v.GetDuration("access_ttl"),
		RefreshTTL:   v.GetDuration("refresh_ttl"),
	}

	if cfg.ChallengeTTL <= 0 {
		return nil, fmt.Errorf("challenge TTL must be positive, got %s", cfg.ChallengeTTL)
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, fmt.Errorf("token TTLs must be positive")
	}

	return cfg, nil
}
