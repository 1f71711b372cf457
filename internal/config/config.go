package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	API   APIConfig   `yaml:"api"`
	State StateConfig `yaml:"state"`
}

type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type StateConfig struct {
	Dir string `yaml:"dir"`
}

const defaultTimeoutSeconds = 30

// Load reads config from a YAML file, then applies environment variable
// overrides. A missing file is not an error (env-only operation); a file
// that exists but cannot be read or parsed is. Env vars:
//
//	REPLOG_API_BASE_URL, REPLOG_API_TIMEOUT, REPLOG_STATE_DIR
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	case os.IsNotExist(err):
		// fall through to env overrides
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("REPLOG_API_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("REPLOG_API_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.API.TimeoutSeconds = secs
		}
	}
	if v := os.Getenv("REPLOG_STATE_DIR"); v != "" {
		cfg.State.Dir = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.API.TimeoutSeconds == 0 {
		cfg.API.TimeoutSeconds = defaultTimeoutSeconds
	}
	if cfg.State.Dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.State.Dir = filepath.Join(home, ".replog")
		}
	}
}

// The base URL is the one fatal startup requirement: without it no request
// can be formed, so initialization refuses to proceed.
func (c *Config) validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required (or set REPLOG_API_BASE_URL)")
	}
	if c.API.TimeoutSeconds < 0 {
		return fmt.Errorf("api.timeout_seconds must not be negative")
	}
	return nil
}
