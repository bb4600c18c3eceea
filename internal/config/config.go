// Package config loads assessment settings from an optional YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything tunable about an assessment run.
type Config struct {
	// MinContentLength rejects submissions shorter than this many characters.
	MinContentLength int `yaml:"min_content_length"`

	// DatabasePath is the sqlite file holding attempts and reports.
	DatabasePath string `yaml:"database_path"`

	Advisory AdvisoryConfig `yaml:"advisory"`

	// BlockOnCritical switches the child-facing status to BLOCKED on a
	// critical risk tier. Off by default: risk is reviewer-facing only.
	BlockOnCritical bool `yaml:"block_on_critical"`
}

type AdvisoryConfig struct {
	// Endpoint is the Ollama-style generate URL. Empty disables the
	// external call and uses the deterministic fallback.
	Endpoint   string `yaml:"endpoint"`
	Model      string `yaml:"model"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// Timeout converts the configured seconds into a duration.
func (a AdvisoryConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSec) * time.Second
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		MinContentLength: 50,
		DatabasePath:     "storygrade.db",
		Advisory: AdvisoryConfig{
			TimeoutSec: 10,
		},
	}
}

// Load reads the YAML file at path, layers it over the defaults, then applies
// environment overrides. An empty path loads defaults plus environment only.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := getenv("STORYGRADE_MIN_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MinContentLength = n
		}
	}
	if v := getenv("STORYGRADE_DB"); v != "" {
		cfg.DatabasePath = v
	}
	if v := getenv("STORYGRADE_ADVISORY_URL"); v != "" {
		cfg.Advisory.Endpoint = v
	}
	if v := getenv("STORYGRADE_ADVISORY_MODEL"); v != "" {
		cfg.Advisory.Model = v
	}
	if v := getenv("STORYGRADE_ADVISORY_TIMEOUT_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Advisory.TimeoutSec = n
		}
	}
	if v := getenv("STORYGRADE_BLOCK_ON_CRITICAL"); v == "1" || strings.EqualFold(v, "true") {
		cfg.BlockOnCritical = true
	}
}

func (c Config) validate() error {
	if c.MinContentLength <= 0 {
		return fmt.Errorf("min_content_length must be positive, got %d", c.MinContentLength)
	}
	if c.Advisory.TimeoutSec <= 0 {
		return fmt.Errorf("advisory timeout must be positive, got %ds", c.Advisory.TimeoutSec)
	}
	return nil
}

func getenv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
