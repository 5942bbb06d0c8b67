package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
)

// Config is the resolved runtime configuration handed to the Klarna
// client. It is a plain value: commands re-load it per invocation, so
// profile edits always take effect on the next call.
type Config struct {
	Username string        `koanf:"username"`
	Password string        `koanf:"password"`
	APIKey   string        `koanf:"api_key"`
	Region   string        `koanf:"region"`
	BaseURL  string        `koanf:"base_url" validate:"omitempty,url"`
	Timeout  time.Duration `koanf:"timeout" validate:"gte=0"`
	LogLevel string        `koanf:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// Load resolves the effective configuration: defaults, then the
// persisted profile at path (if present), then KLARNA_-prefixed
// environment variables. A missing profile file is not an error; a
// corrupt one is.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	err := k.Load(confmap.Provider(map[string]interface{}{
		"region":    "eu",
		"timeout":   "30s",
		"log_level": "info",
	}, "."), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load default configuration: %w", err)
	}

	if path != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := k.Load(file.Provider(path), kjson.Parser()); err != nil {
				return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
			}
		}
	}

	err = k.Load(env.Provider("KLARNA_", ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "KLARNA_")),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal configuration: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}
