package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Env holds deployment configuration read from environment variables.
type Env struct {
	Server    ServerEnv
	Document  DocumentEnv
	Logging   LogEnv
	RateLimit RateLimitEnv
}

// ServerEnv holds the session API listen configuration.
type ServerEnv struct {
	Listen string `envconfig:"BLUED_LISTEN" default:"127.0.0.1:7015"`
}

// DocumentEnv holds the config document location.
type DocumentEnv struct {
	Path string `envconfig:"BLUED_CONFIG" default:"/etc/blue-environment/config.toml"`
}

// LogEnv holds logging configuration.
type LogEnv struct {
	Level       string `envconfig:"BLUED_LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"BLUED_LOG_DEV" default:"false"`
}

// RateLimitEnv holds session API rate limiting configuration.
type RateLimitEnv struct {
	RequestsPerSecond int  `envconfig:"BLUED_RATE_LIMIT_RPS" default:"50"`
	Burst             int  `envconfig:"BLUED_RATE_LIMIT_BURST" default:"100"`
	Enabled           bool `envconfig:"BLUED_RATE_LIMIT_ENABLED" default:"true"`
}

// LoadEnv loads deployment configuration from environment variables.
func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}
	return &env, nil
}

// LoadEnvOrDefault loads environment configuration or returns defaults.
func LoadEnvOrDefault() *Env {
	env, err := LoadEnv()
	if err != nil {
		return DefaultEnv()
	}
	return env
}

// DefaultEnv returns default deployment configuration.
func DefaultEnv() *Env {
	return &Env{
		Server:   ServerEnv{Listen: "127.0.0.1:7015"},
		Document: DocumentEnv{Path: DefaultPath},
		Logging:  LogEnv{Level: "info", Development: false},
		RateLimit: RateLimitEnv{
			RequestsPerSecond: 50,
			Burst:             100,
			Enabled:           true,
		},
	}
}
