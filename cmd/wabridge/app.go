package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/nahidhasan98/wabridge"
	"github.com/nahidhasan98/wabridge/internal/config"
	"github.com/nahidhasan98/wabridge/internal/logger"
)

// app carries the global flags and what is derived from them
type app struct {
	configPath string
	host       string
	port       int
	timeout    time.Duration
	logLevel   string
	logFormat  string

	cfg *config.Config
	log *logger.Logger
}

// load resolves the configuration. Flags given on the command line win over
// the file and the environment.
func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Bridge.Host = a.host
	}
	if flags.Changed("port") {
		cfg.Bridge.Port = a.port
	}
	if flags.Changed("timeout") {
		cfg.Bridge.Timeout = a.timeout
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format).
		With("bridge", cfg.ClientConfig().BaseURL())
	return nil
}

// withClient runs fn against a client built from the configuration
func (a *app) withClient(cmd *cobra.Command, fn func(*wabridge.Client) error) error {
	if err := a.load(cmd); err != nil {
		return err
	}
	return wabridge.WithClient(fn, a.cfg.ClientOptions(a.log.Zerolog())...)
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode error: %w", err)
	}
	return nil
}
