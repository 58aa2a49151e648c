package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the root configuration structure
type Config struct {
	Editor  EditorConfig  `mapstructure:"editor"`
	History HistoryConfig `mapstructure:"history"`
	Logging LoggingConfig `mapstructure:"logging"`
	Debug   bool          `mapstructure:"debug"`
}

// EditorConfig holds buffer and editing behavior settings
type EditorConfig struct {
	// TabStop is the rendered width of a tab character
	TabStop int `mapstructure:"tabstop"`

	// Backup writes <file>.bak.lz4 before overwriting an existing file
	Backup bool `mapstructure:"backup"`

	// RestorePosition jumps to the last known cursor row when reopening a file
	RestorePosition bool `mapstructure:"restore_position"`
}

// HistoryConfig holds command-history persistence settings
type HistoryConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Path to the history database; empty means ~/.config/oolong/history.db
	Path string `mapstructure:"path"`

	// MaxEntries caps the persisted history size
	MaxEntries int `mapstructure:"max_entries"`
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `mapstructure:"level"`

	// Path to the log file; empty means ~/.config/oolong/oolong.log
	Path string `mapstructure:"path"`
}

// Load loads configuration from the default search locations.
func Load() (*Config, error) {
	return LoadFromPath("")
}

// LoadFromPath loads configuration from a specific path.
// If configPath is empty, it searches default locations.
func LoadFromPath(configPath string) (*Config, error) {
	v := viper.New()

	// Environment variable support
	v.AutomaticEnv()
	v.SetEnvPrefix("OOLONG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Apply defaults
	applyDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		if configDir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(configDir, "oolong"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "oolong"))
		}
		v.AddConfigPath(".")
	}

	// Try to read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// No config file, run on defaults
			return configFromViper(v)
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	return configFromViper(v)
}

// configFromViper unmarshals and validates a viper instance.
func configFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.History.Path = expandPath(cfg.History.Path)
	cfg.Logging.Path = expandPath(cfg.Logging.Path)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidateConfig validates the configuration values
func ValidateConfig(cfg *Config) error {
	if cfg.Editor.TabStop < 1 || cfg.Editor.TabStop > 16 {
		return fmt.Errorf("editor.tabstop must be between 1 and 16, got %d", cfg.Editor.TabStop)
	}

	if cfg.History.MaxEntries < 1 {
		return fmt.Errorf("history.max_entries must be >= 1, got %d", cfg.History.MaxEntries)
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	validLevel := false
	for _, lvl := range validLevels {
		if cfg.Logging.Level == lvl {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("logging.level must be one of: %v, got %s", validLevels, cfg.Logging.Level)
	}

	return nil
}

// applyDefaults sets default configuration values
func applyDefaults(v *viper.Viper) {
	// Editor defaults
	v.SetDefault("editor.tabstop", 8)
	v.SetDefault("editor.backup", true)
	v.SetDefault("editor.restore_position", true)

	// History defaults
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "")
	v.SetDefault("history.max_entries", 1000)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "")

	// Debug default
	v.SetDefault("debug", false)
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(path string) string {
	if path == "" || !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
