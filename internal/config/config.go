package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultVersion = 1

	// DefaultPrecision formats results with the shortest exact representation.
	DefaultPrecision = -1
	MaxPrecision     = 15

	DefaultServerAddr = "127.0.0.1:7433"
	DefaultLogLevel   = "info"
)

// Config defines project configuration stored in .tally/config.json.
type Config struct {
	Version   int           `json:"version" toml:"version"`
	Precision *int          `json:"precision,omitempty" toml:"precision,omitempty"`
	Server    *ServerConfig `json:"server,omitempty" toml:"server,omitempty"`
	Log       *LogConfig    `json:"log,omitempty" toml:"log,omitempty"`
}

// ServerConfig holds settings for tally serve.
type ServerConfig struct {
	// Addr is the listen address (default 127.0.0.1:7433).
	Addr *string `json:"addr,omitempty" toml:"addr,omitempty"`
}

// GetAddr returns the listen address (default 127.0.0.1:7433).
func (c *ServerConfig) GetAddr() string {
	if c == nil || c.Addr == nil || strings.TrimSpace(*c.Addr) == "" {
		return DefaultServerAddr
	}
	return *c.Addr
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of trace, debug, info, warn, error (default info).
	Level *string `json:"level,omitempty" toml:"level,omitempty"`
}

// GetLevel returns the configured log level (default info).
func (c *LogConfig) GetLevel() string {
	if c == nil || c.Level == nil {
		return DefaultLogLevel
	}
	return strings.ToLower(strings.TrimSpace(*c.Level))
}

// Validate checks the log level.
func (c *LogConfig) Validate() error {
	if c == nil || c.Level == nil {
		return nil
	}
	switch c.GetLevel() {
	case "trace", "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("unknown log level %q", *c.Level)
	}
}

// GetPrecision returns the decimal places used for results (default -1).
func (c Config) GetPrecision() int {
	if c.Precision == nil {
		return DefaultPrecision
	}
	return *c.Precision
}

// Default returns the default config.
func Default() Config {
	return Config{
		Version: DefaultVersion,
	}
}

// Load reads config from disk and applies defaults for zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config not found: %w", err)
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return parse(path, data)
}

// LoadOrDefault reads config from disk, returning defaults if file doesn't exist.
func LoadOrDefault(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return parse(path, data)
}

func parse(path string, data []byte) (Config, error) {
	var cfg Config
	if isTOML(path) {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	} else if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Version == 0 {
		cfg.Version = DefaultVersion
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Save writes a config to disk. The encoding follows the file extension.
func Save(path string, cfg Config) error {
	if cfg.Version == 0 {
		cfg.Version = DefaultVersion
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	var data []byte
	if isTOML(path) {
		var buf strings.Builder
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		data = []byte(buf.String())
	} else {
		encoded, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		data = encoded
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// Validate ensures config values are within supported ranges.
func (c Config) Validate() error {
	if c.Version != DefaultVersion {
		return fmt.Errorf("unsupported config version: %d", c.Version)
	}
	if c.Precision != nil {
		if *c.Precision < -1 || *c.Precision > MaxPrecision {
			return fmt.Errorf("precision must be between -1 and %d, got %d", MaxPrecision, *c.Precision)
		}
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("invalid log config: %w", err)
	}
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
