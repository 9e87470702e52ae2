package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default config file path.
const DefaultConfigPath = "~/.config/cheapeats/config.yaml"

// Config holds all CheapEats configuration.
type Config struct {
	Storage    StorageConfig    `yaml:"storage"`
	Retention  RetentionConfig  `yaml:"retention"`
	Limits     LimitsConfig     `yaml:"limits"`
	Thumbnails ThumbnailsConfig `yaml:"thumbnails"`
	Repeats    RepeatsConfig    `yaml:"repeat_protection"`
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type StorageConfig struct {
	Path         string `yaml:"path"`
	SQLiteFile   string `yaml:"sqlite_file"`
	ThumbnailDir string `yaml:"thumbnail_dir"`
}

type RetentionConfig struct {
	CacheDays            int `yaml:"cache_days"`
	ViewHistoryDays      int `yaml:"view_history_days"`
	CleanupIntervalHours int `yaml:"cleanup_interval_hours"`
}

type LimitsConfig struct {
	MaxCachedRestaurants int `yaml:"max_cached_restaurants"`
	MaxCacheSizeMB       int `yaml:"max_cache_size_mb"`
}

type ThumbnailsConfig struct {
	Enabled             bool `yaml:"enabled"`
	WifiOnly            bool `yaml:"wifi_only"`
	SizePx              int  `yaml:"size_px"`
	FetchTimeoutSeconds int  `yaml:"fetch_timeout_seconds"`
}

type RepeatsConfig struct {
	CooldownHours int `yaml:"cooldown_hours"`
}

type ServerConfig struct {
	Host                 string   `yaml:"host"`
	Port                 int      `yaml:"port"`
	AllowedOrigins       []string `yaml:"allowed_origins"`
	ProbeURL             string   `yaml:"probe_url"`
	ProbeIntervalSeconds int      `yaml:"probe_interval_seconds"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read or contains invalid YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// DatabasePath returns the resolved SQLite file path.
func (c *Config) DatabasePath() (string, error) {
	dir, err := expandPath(c.Storage.Path)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, c.Storage.SQLiteFile), nil
}

// ThumbnailPath returns the resolved thumbnail directory.
func (c *Config) ThumbnailPath() (string, error) {
	dir, err := expandPath(c.Storage.Path)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, c.Storage.ThumbnailDir), nil
}

// LoadOrCreate loads the config from the default path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreate() (*Config, error) {
	path, err := expandPath(DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	return LoadOrCreateAt(path)
}

// LoadOrCreateAt loads the config from the given path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreateAt(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}

		return cfg, nil
	}

	return Load(path)
}
