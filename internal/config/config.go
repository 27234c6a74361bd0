// Package config loads service settings from defaults, an optional YAML file,
// an optional .env file and CATALOG_* environment variables, in that order of
// increasing priority.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	EnvPrefix = "CATALOG_"

	DefaultFile    = "config.yaml"
	defaultEnvFile = ".env"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Store     StoreConfig     `koanf:"store"`
	Log       LogConfig       `koanf:"log"`
	Metrics   MetricsConfig   `koanf:"metrics"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
}

type ServerConfig struct {
	Port       int           `koanf:"port"`
	ReadHeader time.Duration `koanf:"readheader"`
	Shutdown   time.Duration `koanf:"shutdown"`
}

type StoreConfig struct {
	Path   string `koanf:"path"`
	Strict bool   `koanf:"strict"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Token   string `koanf:"token"`
}

// RateLimitConfig limits each client IP on the product routes. Zero requests
// disables it.
type RateLimitConfig struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
}

func defaults() map[string]any {
	return map[string]any{
		"server.port":        8080,
		"server.readheader":  5 * time.Second,
		"server.shutdown":    10 * time.Second,
		"store.path":         "products.json",
		"store.strict":       false,
		"log.level":          "info",
		"metrics.enabled":    true,
		"metrics.token":      "",
		"ratelimit.requests": 0,
		"ratelimit.window":   time.Minute,
	}
}

// Load builds the configuration. A missing YAML or .env file is not an error.
func Load(path string) (Config, error) {
	var cfg Config
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return cfg, fmt.Errorf("load defaults: %w", err)
	}

	if path == "" {
		path = DefaultFile
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("load %s: %w", path, err)
		}
	}

	if envFile, err := godotenv.Read(defaultEnvFile); err == nil {
		m := make(map[string]any, len(envFile))
		for key, value := range envFile {
			if strings.HasPrefix(key, EnvPrefix) {
				m[envKey(key)] = value
			}
		}
		if err := k.Load(confmap.Provider(m, "."), nil); err != nil {
			return cfg, fmt.Errorf("load %s: %w", defaultEnvFile, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		log.Printf("WARN: reading %s: %v", defaultEnvFile, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return cfg, fmt.Errorf("load env: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// envKey maps CATALOG_SERVER_PORT to server.port.
func envKey(key string) string {
	key = strings.TrimPrefix(strings.ToUpper(key), EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(key), "_", ".")
}

func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadHeader <= 0 {
		return fmt.Errorf("invalid server read header timeout: %v", c.Server.ReadHeader)
	}
	if c.Server.Shutdown <= 0 {
		return fmt.Errorf("invalid server shutdown timeout: %v", c.Server.Shutdown)
	}
	if strings.TrimSpace(c.Store.Path) == "" {
		return errors.New("store path is required")
	}
	if c.RateLimit.Requests < 0 {
		return fmt.Errorf("invalid rate limit requests: %d", c.RateLimit.Requests)
	}
	if c.RateLimit.Requests > 0 && c.RateLimit.Window <= 0 {
		return fmt.Errorf("invalid rate limit window: %v", c.RateLimit.Window)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func (c Config) String() string {
	var b strings.Builder
	b.WriteString("\n--- Catalog Configuration ---\n")
	fmt.Fprintf(&b, "  server.port: %d\n", c.Server.Port)
	fmt.Fprintf(&b, "  server.readheader: %v\n", c.Server.ReadHeader)
	fmt.Fprintf(&b, "  server.shutdown: %v\n", c.Server.Shutdown)
	fmt.Fprintf(&b, "  store.path: %s\n", c.Store.Path)
	fmt.Fprintf(&b, "  store.strict: %t\n", c.Store.Strict)
	fmt.Fprintf(&b, "  log.level: %s\n", c.Log.Level)
	fmt.Fprintf(&b, "  metrics.enabled: %t\n", c.Metrics.Enabled)
	fmt.Fprintf(&b, "  metrics.token: %s\n", mask(c.Metrics.Token))
	fmt.Fprintf(&b, "  ratelimit.requests: %d\n", c.RateLimit.Requests)
	fmt.Fprintf(&b, "  ratelimit.window: %v\n", c.RateLimit.Window)
	return b.String()
}

func mask(s string) string {
	if s == "" {
		return "<not configured>"
	}
	return "****"
}
