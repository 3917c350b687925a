// Package config loads and saves the orgchart TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/theirongolddev/orgchart/internal/model"

	"github.com/BurntSushi/toml"
)

// Config holds all orgchart configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Operator   OperatorConfig   `toml:"operator"`
	Appearance AppearanceConfig `toml:"appearance"`
	Server     ServerConfig     `toml:"server"`
	Logging    LoggingConfig    `toml:"logging"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DBPath   string `toml:"db_path,omitempty"`
	AutoSave bool   `toml:"auto_save"`
}

// OperatorConfig identifies who is editing the chart. There is no real
// authentication; the admin flag is trusted as configured.
type OperatorConfig struct {
	Name  string `toml:"name"`
	Admin bool   `toml:"admin"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// ServerConfig holds daemon settings.
type ServerConfig struct {
	Addr         string `toml:"addr"`
	EventsBuffer int    `toml:"events_buffer"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "text" or "json"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			AutoSave: true,
		},
		Operator: OperatorConfig{
			Name: "operator",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8788",
			EventsBuffer: 200,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "orgchart")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "orgchart")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory holding the chart.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "orgchart")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "orgchart")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config at path, returning defaults if it doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's own config
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(Path(), cfg)
}

// SaveTo writes the config to path.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// GetDBPath returns the chart database path from env var or config,
// falling back to the data directory.
func GetDBPath(cfg Config) string {
	if p := os.Getenv("ORGCHART_DB"); p != "" {
		return p
	}
	if cfg.General.DBPath != "" {
		return cfg.General.DBPath
	}
	return filepath.Join(DataDir(), "chart.db")
}

// GetOperator returns the operator identity from env vars or config, in
// that order.
func GetOperator(cfg Config) model.Operator {
	op := model.Operator{
		Name:    cfg.Operator.Name,
		IsAdmin: cfg.Operator.Admin,
	}
	if name := os.Getenv("ORGCHART_OPERATOR"); name != "" {
		op.Name = name
	}
	if v := os.Getenv("ORGCHART_ADMIN"); v != "" {
		if admin, err := strconv.ParseBool(v); err == nil {
			op.IsAdmin = admin
		}
	}
	return op
}
