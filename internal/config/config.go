package config

import (
	"embed"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

const (
	DriverBBolt  = "bbolt"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"

	SeedJSONPlaceholder = "jsonplaceholder"
	SeedFeed            = "feed"
)

type Storage struct {
	Driver  string `yaml:"driver"`
	DataDir string `yaml:"data_dir"`
	Key     string `yaml:"key"`
}

type Seed struct {
	Type    string `yaml:"type"`
	URL     string `yaml:"url"`
	Timeout string `yaml:"timeout"`
}

type Pagination struct {
	PublicPageSize int `yaml:"public_page_size"`
	AdminPageSize  int `yaml:"admin_page_size"`
}

type Server struct {
	Addr string `yaml:"addr"`
}

type Config struct {
	Storage    Storage    `yaml:"storage"`
	Seed       Seed       `yaml:"seed"`
	Pagination Pagination `yaml:"pagination"`
	Server     Server     `yaml:"server"`
	LogLevel   string     `yaml:"log_level"`
}

// SeedTimeout returns the seed fetch timeout, defaulting to 15s.
func (c *Config) SeedTimeout() time.Duration {
	d, err := time.ParseDuration(c.Seed.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// DataDir returns the storage directory, defaulting to the XDG data home.
func (c *Config) DataDir() string {
	if c.Storage.DataDir != "" {
		return c.Storage.DataDir
	}
	return filepath.Join(xdg.DataHome, "inkwell")
}

// Level returns the slog level for LogLevel, defaulting to info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "inkwell", "config.yaml")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config at path, or at DefaultConfigPath if path is empty. Values missing from the file
// keep their defaults. A missing file is created with the defaults.
func Load(path string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Non-fatal: just use embedded defaults
			_ = writeDefaults(path)
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	switch cfg.Storage.Driver {
	case DriverBBolt, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("storage: unknown driver %q", cfg.Storage.Driver)
	}

	if strings.TrimSpace(cfg.Storage.Key) == "" {
		return fmt.Errorf("storage: key is required")
	}

	switch cfg.Seed.Type {
	case SeedJSONPlaceholder, SeedFeed:
	default:
		return fmt.Errorf("seed: unknown type %q", cfg.Seed.Type)
	}

	u, err := url.Parse(cfg.Seed.URL)
	if err != nil {
		return fmt.Errorf("seed: invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("seed: url must be http or https")
	}

	if cfg.Seed.Timeout != "" {
		if _, err := time.ParseDuration(cfg.Seed.Timeout); err != nil {
			return fmt.Errorf("seed: invalid timeout: %w", err)
		}
	}

	if cfg.Pagination.PublicPageSize < 1 || cfg.Pagination.AdminPageSize < 1 {
		return fmt.Errorf("pagination: page sizes must be positive")
	}

	return nil
}
