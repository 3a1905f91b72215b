package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ErrMissingAPIKey is returned when no API key could be found anywhere.
var ErrMissingAPIKey = errors.New("mite API key not configured: set MITE_API_KEY, run 'might auth', or add api_key to [mite] in the config file")

type Config struct {
	Mite   MiteConfig   `toml:"mite"`
	Prompt PromptConfig `toml:"prompt"`
}

type MiteConfig struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type PromptConfig struct {
	DefaultHours int `toml:"default_hours"`
	PageSize     int `toml:"page_size"`
}

func DefaultConfig() Config {
	return Config{
		Mite: MiteConfig{
			TimeoutSeconds: 30,
		},
		Prompt: PromptConfig{
			DefaultHours: 8,
			PageSize:     10,
		},
	}
}

// Timeout is the per-request HTTP timeout. Zero disables it.
func (c *Config) Timeout() time.Duration {
	if c.Mite.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Mite.TimeoutSeconds) * time.Second
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "might"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads the config at path over the defaults. A missing file is
// not an error.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			return &cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if cfg.Prompt.PageSize <= 0 {
		cfg.Prompt.PageSize = DefaultConfig().Prompt.PageSize
	}

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MITE_API_KEY"); v != "" {
		cfg.Mite.APIKey = v
	}
	if v := os.Getenv("MITE_BASE_URL"); v != "" {
		cfg.Mite.BaseURL = v
	}
}

// WriteDefault writes the default config to path with an empty API key.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	out, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return os.WriteFile(path, out, 0600)
}
