// Package config loads the calmeetings configuration from an optional TOML
// file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/guilherme-santos/calmeetings/calendar/google"
	"github.com/guilherme-santos/calmeetings/calendar/outlook"
	"github.com/guilherme-santos/calmeetings/internal"
)

const envPrefix = "CALMEETINGS_"

type Config struct {
	Addr           string   `toml:"addr"`
	LogLevel       string   `toml:"log_level"`
	Database       string   `toml:"database"`
	RequestTimeout Duration `toml:"request_timeout"`
	Workers        int      `toml:"workers"`
	Google         Provider `toml:"google"`
	Outlook        Provider `toml:"outlook"`
}

type Provider struct {
	BaseURL string `toml:"base_url"`
	// RateLimit is in requests per second, 0 disables it.
	RateLimit float64 `toml:"rate_limit"`
}

// Duration lets durations be written as "15s" in the TOML file.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func Default() *Config {
	return &Config{
		Addr:           ":8080",
		LogLevel:       "info",
		Database:       "calmeetings.db",
		RequestTimeout: Duration{15 * time.Second},
		Workers:        4,
		Google:         Provider{BaseURL: google.DefaultBaseURL},
		Outlook:        Provider{BaseURL: outlook.DefaultBaseURL},
	}
}

// Load starts from the defaults, applies the file at path when path is not
// empty and then the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Addr, "ADDR")
	setString(&c.Database, "DATABASE")
	setString(&c.Google.BaseURL, "GOOGLE_BASE_URL")
	setString(&c.Outlook.BaseURL, "OUTLOOK_BASE_URL")
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	setString(&c.LogLevel, "LOG_LEVEL")

	if v := getEnv("REQUEST_TIMEOUT"); v != "" {
		if err := c.RequestTimeout.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("config: %sREQUEST_TIMEOUT: %w", envPrefix, err)
		}
	}
	if v := getEnv("WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %sWORKERS: %w", envPrefix, err)
		}
		c.Workers = n
	}
	for name, dst := range map[string]*float64{
		"GOOGLE_RATE_LIMIT":  &c.Google.RateLimit,
		"OUTLOOK_RATE_LIMIT": &c.Outlook.RateLimit,
	} {
		if v := getEnv(name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("config: %s%s: %w", envPrefix, name, err)
			}
			*dst = f
		}
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if c.RequestTimeout.Duration <= 0 {
		errs = append(errs, fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout))
	}
	for name, p := range map[string]Provider{"google": c.Google, "outlook": c.Outlook} {
		if p.BaseURL == "" {
			errs = append(errs, fmt.Errorf("%s.base_url is required", name))
		}
		if p.RateLimit < 0 {
			errs = append(errs, fmt.Errorf("%s.rate_limit must not be negative", name))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// RateLimits returns the per provider limits in the shape the aggregator
// expects.
func (c *Config) RateLimits() map[internal.ProviderKey]float64 {
	return map[internal.ProviderKey]float64{
		internal.Google:  c.Google.RateLimit,
		internal.Outlook: c.Outlook.RateLimit,
	}
}

func getEnv(name string) string {
	return os.Getenv(envPrefix + name)
}

func setString(dst *string, name string) {
	if v := getEnv(name); v != "" {
		*dst = v
	}
}
