package wabridge

import (
	"fmt"
	"time"
)

// Version of this client, sent in the User-Agent header
const Version = "0.1.0"

// Defaults for a bridge running next to the caller
const (
	DefaultHost       = "localhost"
	DefaultPort       = 3000
	DefaultTimeout    = 30 * time.Second
	DefaultMaxWorkers = 5
)

// Config locates the bridge. It is fixed once the client is built.
type Config struct {
	Host    string
	Port    int
	Timeout time.Duration
}

// DefaultConfig returns the configuration of a local bridge on port 3000
func DefaultConfig() Config {
	return Config{
		Host:    DefaultHost,
		Port:    DefaultPort,
		Timeout: DefaultTimeout,
	}
}

// BaseURL returns the bridge root URL
func (c Config) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", c.Host, c.Port)
}

// Validate validates the configuration
func (c Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("bridge host is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid bridge port: %d", c.Port)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid request timeout: %s", c.Timeout)
	}
	return nil
}
