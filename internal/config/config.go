package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/nahidhasan98/wabridge"
)

// Config holds the CLI configuration
type Config struct {
	// Bridge location
	Bridge BridgeConfig `toml:"bridge" envPrefix:"WABRIDGE_"`

	// Batch sending
	Batch BatchConfig `toml:"batch" envPrefix:"WABRIDGE_"`

	// Logging configuration
	Log LogConfig `toml:"log" envPrefix:"LOG_"`
}

// BridgeConfig locates the bridge server
type BridgeConfig struct {
	Host    string        `toml:"host"    env:"HOST"`
	Port    int           `toml:"port"    env:"PORT"`
	Timeout time.Duration `toml:"timeout" env:"TIMEOUT"`
}

// BatchConfig tunes batch sends
type BatchConfig struct {
	MaxWorkers int     `toml:"max_workers" env:"MAX_WORKERS"`
	RateLimit  float64 `toml:"rate_limit"  env:"RATE_LIMIT"` // requests per second, 0 = unlimited
	RateBurst  int     `toml:"rate_burst"  env:"RATE_BURST"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `toml:"level"  env:"LEVEL"`
	Format string `toml:"format" env:"FORMAT"` // "json" or "text"
}

// Default returns the configuration of a local bridge
func Default() *Config {
	return &Config{
		Bridge: BridgeConfig{
			Host:    wabridge.DefaultHost,
			Port:    wabridge.DefaultPort,
			Timeout: wabridge.DefaultTimeout,
		},
		Batch: BatchConfig{
			MaxWorkers: wabridge.DefaultMaxWorkers,
			RateBurst:  1,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration from defaults, the TOML file at path (if
// path is not empty), a .env file in the working directory and finally the
// environment.
func Load(path string) (*Config, error) {
	// Try to load .env file (ignore errors - it's optional)
	_ = godotenv.Load(".env")

	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Save writes cfg to path as TOML, creating parent dirs as needed
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.ClientConfig().Validate(); err != nil {
		return err
	}

	if c.Batch.MaxWorkers < 1 {
		return fmt.Errorf("invalid max workers: %d", c.Batch.MaxWorkers)
	}

	if c.Batch.RateLimit < 0 {
		return fmt.Errorf("invalid rate limit: %v", c.Batch.RateLimit)
	}

	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("invalid log format: %q", c.Log.Format)
	}

	return nil
}

// ClientConfig returns the connection target for wabridge.New
func (c *Config) ClientConfig() wabridge.Config {
	return wabridge.Config{
		Host:    c.Bridge.Host,
		Port:    c.Bridge.Port,
		Timeout: c.Bridge.Timeout,
	}
}

// ClientOptions returns the options that build a client for this configuration
func (c *Config) ClientOptions(log zerolog.Logger) []wabridge.Option {
	opts := []wabridge.Option{
		wabridge.WithConfig(c.ClientConfig()),
		wabridge.WithLogger(log),
	}
	if c.Batch.RateLimit > 0 {
		opts = append(opts, wabridge.WithRateLimit(rate.Limit(c.Batch.RateLimit), c.Batch.RateBurst))
	}
	return opts
}
