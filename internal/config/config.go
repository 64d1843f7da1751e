package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix marks environment variables that override file settings.
// DYNROUTES_STORE_REDIS_URL maps to store.redis_url.
const EnvPrefix = "DYNROUTES_"

// DefaultPath is read when no explicit config file is given. It may be absent.
const DefaultPath = "dynroutes.yaml"

// Config holds the settings shared by the CLI and the HTTP server.
type Config struct {
	LogLevel    string      `mapstructure:"log_level"`
	NodeKind    string      `mapstructure:"node_kind"`
	Seed        *uint64     `mapstructure:"seed"`
	PaletteFile string      `mapstructure:"palette_file"`
	Listen      string      `mapstructure:"listen"`
	Store       StoreConfig `mapstructure:"store"`
}

// StoreConfig selects and configures the workflow store.
type StoreConfig struct {
	Backend  string        `mapstructure:"backend"` // file, memory or redis
	Dir      string        `mapstructure:"dir"`
	RedisURL string        `mapstructure:"redis_url"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel: "info",
		NodeKind: "DynamicRoutes",
		Listen:   ":8188",
		Store: StoreConfig{
			Backend: "file",
			Dir:     filepath.Join(".dynroutes", "workflows"),
		},
	}
}

// Load reads the config file at path (YAML, or JSON by extension), applies
// the environment overrides found in environ and decodes the result over Default.
// A missing file is only an error when path was given explicitly.
func Load(path string, environ []string) (Config, error) {
	raw := make(map[string]any)

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := unmarshal(path, data, &raw); err != nil {
			return Config{}, err
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	overlayEnv(raw, environ)

	cfg := Default()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return Config{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings that cannot be checked by decoding alone.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case "file", "memory":
	case "redis":
		if c.Store.RedisURL == "" {
			return fmt.Errorf("store.redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.NodeKind == "" {
		return fmt.Errorf("node_kind cannot be empty")
	}
	return nil
}

func unmarshal(path string, data []byte, raw *map[string]any) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, raw); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, raw); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if *raw == nil {
		*raw = make(map[string]any)
	}
	return nil
}

func overlayEnv(raw map[string]any, environ []string) {
	for _, kv := range environ {
		key, val, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		name := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))

		if rest, found := strings.CutPrefix(name, "store_"); found {
			store, _ := raw["store"].(map[string]any)
			if store == nil {
				store = make(map[string]any)
				raw["store"] = store
			}
			store[rest] = val
			continue
		}
		raw[name] = val
	}
}
