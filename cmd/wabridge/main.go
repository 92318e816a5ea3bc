package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nahidhasan98/wabridge"
)

func NewRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "wabridge",
		Short: "Send WhatsApp messages through a WABridge server",
		Example: `  wabridge status
  wabridge send "Hello!"
  wabridge send 919876543210 "Hello!"
  wabridge send 919876543210 --image https://example.com/photo.jpg --caption "Check this"
  wabridge group 120363012345@g.us "Hello group!"
  wabridge batch contacts.csv --workers 10`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "TOML config file")
	flags.StringVar(&a.host, "host", wabridge.DefaultHost, "bridge host")
	flags.IntVar(&a.port, "port", wabridge.DefaultPort, "bridge port")
	flags.DurationVar(&a.timeout, "timeout", wabridge.DefaultTimeout, "per-request timeout")
	flags.StringVar(&a.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "text", "log format (text, json)")

	cmd.AddCommand(
		newStatusCommand(a),
		newConnectedCommand(a),
		newGroupsCommand(a),
		newSendCommand(a),
		newGroupCommand(a),
		newChannelCommand(a),
		newBatchCommand(a),
		newConfigCommand(a),
		newVersionCommand(),
	)

	return cmd
}

func main() {
	// Cancel in-flight requests on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
