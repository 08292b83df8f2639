// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Snapshot file formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config holds all abook configuration.
type Config struct {
	Storage   Storage   `yaml:"storage"`
	Birthdays Birthdays `yaml:"birthdays"`
	Log       Log       `yaml:"log"`
}

// Storage selects where the address book snapshot lives.
type Storage struct {
	Backend string `yaml:"backend"` // "file" | "redis"
	Path    string `yaml:"path"`    // Snapshot file for the file backend
	Format  string `yaml:"format"`  // "json" | "yaml"
	Redis   Redis  `yaml:"redis"`
}

// Redis holds connection settings for the redis backend.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

// Birthdays holds upcoming-birthday settings.
type Birthdays struct {
	WindowDays int `yaml:"window_days"`
}

// Log holds diagnostic logging settings. An empty Level disables logging.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Storage: Storage{
			Backend: BackendFile,
			Path:    "addressbook.json",
			Format:  FormatJSON,
			Redis: Redis{
				Addr: "localhost:6379",
				Key:  "abook:snapshot",
			},
		},
		Birthdays: Birthdays{
			WindowDays: 7,
		},
		Log: Log{
			Format: "text",
		},
	}
}

// Load reads a single YAML config file at path and returns a Config.
// For merging multiple config sources, use LoadLayered instead.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.Path == "" {
			return errors.New("config: storage.path cannot be empty")
		}
		switch c.Storage.Format {
		case FormatJSON, FormatYAML:
		default:
			return fmt.Errorf("config: storage.format must be \"json\" or \"yaml\", got %q", c.Storage.Format)
		}
	case BackendRedis:
		if c.Storage.Redis.Addr == "" {
			return errors.New("config: storage.redis.addr cannot be empty")
		}
		if c.Storage.Redis.Key == "" {
			return errors.New("config: storage.redis.key cannot be empty")
		}
	default:
		return fmt.Errorf("config: storage.backend must be \"file\" or \"redis\", got %q", c.Storage.Backend)
	}
	if c.Birthdays.WindowDays < 0 {
		return fmt.Errorf("config: birthdays.window_days must be non-negative, got %d", c.Birthdays.WindowDays)
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: log.format must be \"text\" or \"json\", got %q", c.Log.Format)
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: ABOOK_STORAGE_BACKEND, ABOOK_STORAGE_PATH,
// ABOOK_REDIS_ADDR, ABOOK_BIRTHDAY_WINDOW, ABOOK_LOG_LEVEL.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("ABOOK_STORAGE_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("ABOOK_STORAGE_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("ABOOK_REDIS_ADDR"); v != "" {
		c.Storage.Redis.Addr = v
	}
	if v := os.Getenv("ABOOK_BIRTHDAY_WINDOW"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid ABOOK_BIRTHDAY_WINDOW %q: %w", v, err)
		}
		c.Birthdays.WindowDays = n
	}
	if v := os.Getenv("ABOOK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// decode strictly decodes YAML into v. Empty and comment-only documents
// leave v untouched.
func decode(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Storage   *rawStorage   `yaml:"storage"`
	Birthdays *rawBirthdays `yaml:"birthdays"`
	Log       *rawLog       `yaml:"log"`
}

type rawStorage struct {
	Backend *string   `yaml:"backend"`
	Path    *string   `yaml:"path"`
	Format  *string   `yaml:"format"`
	Redis   *rawRedis `yaml:"redis"`
}

type rawRedis struct {
	Addr     *string `yaml:"addr"`
	Password *string `yaml:"password"`
	DB       *int    `yaml:"db"`
	Key      *string `yaml:"key"`
}

type rawBirthdays struct {
	WindowDays *int `yaml:"window_days"`
}

type rawLog struct {
	Level  *string `yaml:"level"`
	Format *string `yaml:"format"`
	File   *string `yaml:"file"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist or is empty. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var raw rawConfig
	if err := decode(data, &raw); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if s := layer.Storage; s != nil {
		setString(&c.Storage.Backend, s.Backend)
		setString(&c.Storage.Path, s.Path)
		setString(&c.Storage.Format, s.Format)
		if r := s.Redis; r != nil {
			setString(&c.Storage.Redis.Addr, r.Addr)
			setString(&c.Storage.Redis.Password, r.Password)
			setString(&c.Storage.Redis.Key, r.Key)
			if r.DB != nil {
				c.Storage.Redis.DB = *r.DB
			}
		}
	}
	if b := layer.Birthdays; b != nil && b.WindowDays != nil {
		c.Birthdays.WindowDays = *b.WindowDays
	}
	if l := layer.Log; l != nil {
		setString(&c.Log.Level, l.Level)
		setString(&c.Log.Format, l.Format)
		setString(&c.Log.File, l.File)
	}
}

func setString(dst, src *string) {
	if src != nil {
		*dst = *src
	}
}
