// Package config loads and saves the assembler's TOML configuration,
// following the shape and platform-path conventions of the teacher's
// configuration layer (see SPEC_FULL.md §6.4).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config is the assembler's full configuration surface.
type Config struct {
	Output struct {
		EmitAm bool `toml:"emit_am"`
		Color  bool `toml:"color"`
	} `toml:"output"`

	Diagnostics struct {
		ExitNonzeroOnError bool `toml:"exit_nonzero_on_error"`
		MaxErrorsPerFile   int  `toml:"max_errors_per_file"`
	} `toml:"diagnostics"`

	Dialect struct {
		AcceptBareZero bool `toml:"accept_bare_zero"`
	} `toml:"dialect"`

	Symbols struct {
		MaxNameLength int `toml:"max_name_length"`
	} `toml:"symbols"`
}

// DefaultConfig returns a Config with the defaults documented in
// SPEC_FULL.md §6.4 — notably, both Open-Question behaviors are preserved
// unchanged until an operator opts in.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Output.EmitAm = true
	cfg.Output.Color = true

	cfg.Diagnostics.ExitNonzeroOnError = false
	cfg.Diagnostics.MaxErrorsPerFile = 0

	cfg.Dialect.AcceptBareZero = false

	cfg.Symbols.MaxNameLength = 31

	return cfg
}

// GetConfigPath returns the platform-specific config file path, creating
// its directory if necessary.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "asm14")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "asm14")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from path, returning DefaultConfig()
// unchanged if the file does not exist.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
