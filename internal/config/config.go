package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// DefaultPath is the well-known location of the config document.
const DefaultPath = "/etc/blue-environment/config.toml"

//go:embed fallback.toml
var fallbackDocument []byte

// ErrAppNotMapped reports a logical app name with no configured path.
// Callers decide the fallback; the supervisor executes the literal name.
var ErrAppNotMapped = errors.New("app not mapped in config")

// Config is the parsed config document. Read-only after Load.
type Config struct {
	Apps       map[string]string `toml:"apps"`
	Appearance map[string]string `toml:"appearance"`
}

// Load reads and parses the document at path. An unreadable file falls
// back to the embedded document; a parse or validation failure of either
// source is returned as an error and must abort startup.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		data = fallbackDocument
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config document: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config document: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	for name, path := range c.Apps {
		if strings.TrimSpace(name) == "" {
			return errors.New("apps: empty logical name")
		}
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("apps.%s: empty executable path", name)
		}
	}
	for key, value := range c.Appearance {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("appearance.%s: empty value", key)
		}
	}
	return nil
}

// ResolveApp maps a logical app name to its executable path.
func (c *Config) ResolveApp(name string) (string, error) {
	path, ok := c.Apps[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrAppNotMapped, name)
	}
	return path, nil
}

// AppearancePath returns the configured path/value for an appearance key
// (background, icon keys). Missing keys are not an error condition for
// the session; the render layer skips absent assets.
func (c *Config) AppearancePath(key string) (string, bool) {
	value, ok := c.Appearance[key]
	return value, ok
}
