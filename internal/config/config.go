package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds settings for the demo binary. Libraries in this repo take
// their configuration through constructors; only the binary boundary reads
// the environment.
type Config struct {
	AppEnv       string
	RedisAddr    string // empty disables the Redis-backed actors
	PublishCount int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	v := viper.New()
	if err := v.BindEnv("app.env", "APP_ENV"); err != nil {
		return nil, fmt.Errorf("bind app.env: %w", err)
	}
	if err := v.BindEnv("redis.addr", "REDIS_ADDR"); err != nil {
		return nil, fmt.Errorf("bind redis.addr: %w", err)
	}
	if err := v.BindEnv("publish.count", "PUBLISH_COUNT"); err != nil {
		return nil, fmt.Errorf("bind publish.count: %w", err)
	}

	v.SetDefault("app.env", "dev")
	v.SetDefault("publish.count", 10)

	cfg := &Config{
		AppEnv:       v.GetString("app.env"),
		RedisAddr:    v.GetString("redis.addr"),
		PublishCount: v.GetInt("publish.count"),
	}
	if cfg.PublishCount < 1 {
		return nil, fmt.Errorf("PUBLISH_COUNT must be positive, got %d", cfg.PublishCount)
	}
	return cfg, nil
}
