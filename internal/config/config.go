// Package config loads user defaults for grepnir from a YAML file.
//
// Flags given on the command line always win over the file; the file only
// fills in what the flags leave unset.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable that overrides the config location
const EnvPath = "GREPNIR_CONFIG"

// Colour modes
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Binary handling modes
const (
	BinarySkip = "skip"
	BinaryText = "text"
)

// Config represents grepnir user defaults
type Config struct {
	// Color decides when matches are highlighted (auto, always, never)
	Color string `yaml:"color"`

	// Encoding is the input encoding label, empty for UTF-8
	Encoding string `yaml:"encoding"`

	// SearchCompressed looks through gzip and bzip2 files
	SearchCompressed bool `yaml:"search_compressed"`

	// Binary decides what happens to files that look binary (skip, text)
	Binary string `yaml:"binary"`

	// LogLevel sets the debug log verbosity (debug, info, warn, error, disabled)
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Color:    ColorAuto,
		Binary:   BinarySkip,
		LogLevel: "warn",
	}
}

// DefaultPath returns the config file location: $GREPNIR_CONFIG if set,
// otherwise grepnir/config.yaml under the user config directory
func DefaultPath() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "grepnir", "config.yaml")
}

// Load loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if fileCfg.Color != "" {
		cfg.Color = strings.ToLower(fileCfg.Color)
	}
	if fileCfg.Encoding != "" {
		cfg.Encoding = fileCfg.Encoding
	}
	if fileCfg.SearchCompressed {
		cfg.SearchCompressed = true
	}
	if fileCfg.Binary != "" {
		cfg.Binary = strings.ToLower(fileCfg.Binary)
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = strings.ToLower(fileCfg.LogLevel)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the enumerated fields
func (c *Config) Validate() error {
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("color must be %s, %s or %s, got %q", ColorAuto, ColorAlways, ColorNever, c.Color)
	}
	switch c.Binary {
	case BinarySkip, BinaryText:
	default:
		return fmt.Errorf("binary must be %s or %s, got %q", BinarySkip, BinaryText, c.Binary)
	}
	return nil
}

// ResolveColor turns a colour mode into a yes/no answer for the output
// behind fd. Auto highlights only terminals, and NO_COLOR disables it.
func ResolveColor(mode string, fd uintptr) (bool, error) {
	switch strings.ToLower(mode) {
	case ColorAlways:
		return true, nil
	case ColorNever:
		return false, nil
	case ColorAuto, "":
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return false, nil
		}
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd), nil
	default:
		return false, fmt.Errorf("invalid color mode %q", mode)
	}
}
