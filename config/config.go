// Package config holds the application configuration: where the
// journal lives, display defaults, and backup behavior.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/tradebook/trade"
)

// Environment overrides, loaded from the process environment and an
// optional .env file.
const (
	EnvDir    = "TRADEBOOK_DIR"
	EnvConfig = "TRADEBOOK_CONFIG"
)

// Config is the complete application configuration.
type Config struct {
	Currency        string       `json:"currency" yaml:"currency"`
	DateFormat      string       `json:"date_format" yaml:"date_format"`
	DefaultStrategy string       `json:"default_strategy" yaml:"default_strategy"`
	Data            DataConfig   `json:"data" yaml:"data"`
	Backup          BackupConfig `json:"backup" yaml:"backup"`
}

// DataConfig locates the journal on disk.
type DataConfig struct {
	Dir        string `json:"dir" yaml:"dir"`
	TradesFile string `json:"trades_file" yaml:"trades_file"`
}

// BackupConfig controls zip snapshots of the data directory.
type BackupConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Dir     string `json:"dir,omitempty" yaml:"dir,omitempty"`
	Keep    int    `json:"keep" yaml:"keep"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Currency:        "USD",
		DateFormat:      trade.DateLayout,
		DefaultStrategy: string(trade.LongStock),
		Data: DataConfig{
			Dir:        "data",
			TradesFile: "trades.csv",
		},
		Backup: BackupConfig{
			Enabled: true,
			Keep:    10,
		},
	}
}

// TradesPath is the location of the journal file.
func (c *Config) TradesPath() string {
	return filepath.Join(c.Data.Dir, c.Data.TradesFile)
}

// BackupDir is the backup archive directory, defaulting to a
// subdirectory of the data dir.
func (c *Config) BackupDir() string {
	if c.Backup.Dir != "" {
		return c.Backup.Dir
	}
	return filepath.Join(c.Data.Dir, "backups")
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	if c.Currency == "" {
		return fmt.Errorf("currency is required")
	}
	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir is required")
	}
	if c.Data.TradesFile == "" {
		return fmt.Errorf("data.trades_file is required")
	}
	if !trade.Strategy(c.DefaultStrategy).Valid() {
		return fmt.Errorf("unknown default_strategy: %s", c.DefaultStrategy)
	}
	if c.Backup.Keep < 0 {
		return fmt.Errorf("backup.keep cannot be negative")
	}
	return nil
}

// LoadFromFile loads configuration from a file, trying YAML first and
// falling back to JSON.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if yerr := yaml.Unmarshal(data, cfg); yerr != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", yerr)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration, choosing the format by file
// extension (.yaml/.yml, JSON otherwise).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Load resolves the configuration for a run. A .env file (if present)
// and the environment may point at the data directory or an explicit
// config file; otherwise a config.yaml inside the data dir is used when
// it exists, and defaults apply when it does not.
func Load() (*Config, error) {
	_ = godotenv.Load() // a missing .env is fine

	if path := os.Getenv(EnvConfig); path != "" {
		return LoadFromFile(path)
	}

	cfg := Default()
	if dir := os.Getenv(EnvDir); dir != "" {
		cfg.Data.Dir = dir
	}

	path := filepath.Join(cfg.Data.Dir, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return LoadFromFile(path)
	}
	return cfg, nil
}
