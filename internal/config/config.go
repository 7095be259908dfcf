// Package config loads the optional YAML configuration of the tagtext CLI.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable holding the config file path.
const EnvPath = "TAGTEXT_CONFIG"

type LogConfig struct {
	Backend string `yaml:"backend"` // zap | logrus | slog | none
	Level   string `yaml:"level"`   // debug | info | warn | error
}

type CacheConfig struct {
	Backend   string        `yaml:"backend"` // none | ristretto | bigcache | redis
	Namespace string        `yaml:"namespace"`
	TTL       time.Duration `yaml:"ttl"`
	RedisAddr string        `yaml:"redis_addr"`
	MaxCost   int64         `yaml:"max_cost"` // ristretto: bytes
}

type Config struct {
	Log   LogConfig   `yaml:"log"`
	Cache CacheConfig `yaml:"cache"`

	Color          string `yaml:"color"` // always | auto | never
	Strict         bool   `yaml:"strict"`
	Normalize      bool   `yaml:"normalize"`
	MaxDecodeRunes int    `yaml:"max_decode_runes"`
}

func Default() Config {
	return Config{
		Log:   LogConfig{Backend: "none", Level: "warn"},
		Cache: CacheConfig{Backend: "none", Namespace: "default", TTL: 10 * time.Minute, MaxCost: 1 << 20},
		Color: "always",
	}
}

// Load reads path over the defaults. An empty path yields Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// FromEnv loads the file named by $TAGTEXT_CONFIG, if any.
func FromEnv() (Config, error) {
	return Load(os.Getenv(EnvPath))
}

func (c Config) Validate() error {
	if !oneOf(c.Log.Backend, "zap", "logrus", "slog", "none") {
		return fmt.Errorf("config: unknown log.backend %q", c.Log.Backend)
	}
	if !oneOf(c.Log.Level, "debug", "info", "warn", "error") {
		return fmt.Errorf("config: unknown log.level %q", c.Log.Level)
	}
	if !oneOf(c.Cache.Backend, "none", "ristretto", "bigcache", "redis") {
		return fmt.Errorf("config: unknown cache.backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisAddr == "" {
		return fmt.Errorf("config: cache.redis_addr is required for the redis backend")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("config: cache.ttl must be >= 0 (0 => default)")
	}
	if c.Cache.Backend == "ristretto" && c.Cache.MaxCost <= 0 {
		return fmt.Errorf("config: cache.max_cost must be > 0")
	}
	if !oneOf(c.Color, "always", "auto", "never") {
		return fmt.Errorf("config: unknown color %q", c.Color)
	}
	if c.MaxDecodeRunes < 0 {
		return fmt.Errorf("config: max_decode_runes must be >= 0")
	}
	return nil
}

func oneOf(v string, allowed ...string) bool { return slices.Contains(allowed, v) }
