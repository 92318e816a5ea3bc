package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nahidhasan98/wabridge"
	"github.com/nahidhasan98/wabridge/internal/config"
	"github.com/nahidhasan98/wabridge/internal/validation"
)

var errNotConnected = errors.New("bridge is not connected")

func newStatusCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the bridge connection status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withClient(cmd, func(c *wabridge.Client) error {
				status, err := c.Status(cmd.Context())
				if err != nil {
					return err
				}
				return outputJSON(cmd.OutOrStdout(), status)
			})
		},
	}
}

func newConnectedCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "connected",
		Short: "Exit non-zero unless the bridge is connected",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withClient(cmd, func(c *wabridge.Client) error {
				ok := c.IsConnected(cmd.Context())
				if err := outputJSON(cmd.OutOrStdout(), map[string]bool{"connected": ok}); err != nil {
					return err
				}
				if !ok {
					return errNotConnected
				}
				return nil
			})
		},
	}
}

func newGroupsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "List the groups the bridge account belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withClient(cmd, func(c *wabridge.Client) error {
				groups, err := c.Groups(cmd.Context())
				if err != nil {
					return err
				}
				return outputJSON(cmd.OutOrStdout(), groups)
			})
		},
	}
}

func newSendCommand(a *app) *cobra.Command {
	var media mediaFlags

	cmd := &cobra.Command{
		Use:   "send [phone] [message]",
		Short: "Send a message to a phone number or to yourself",
		Long: `Send a message through the bridge.

With one argument and no media the argument is the message and it goes to
your own chat. With two arguments the first is the recipient phone number.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := wabridge.SendRequest{Media: media.options(cmd)}
			if len(args) > 0 {
				req.Target = args[0]
			}
			if len(args) > 1 {
				req.Message = wabridge.Text(args[1])
			}
			if req.Target == "" && !req.Media.HasMedia() {
				return errors.New("nothing to send: give a message or a media flag")
			}

			return a.withClient(cmd, func(c *wabridge.Client) error {
				res, err := c.Send(cmd.Context(), req)
				if err != nil {
					return err
				}
				return outputJSON(cmd.OutOrStdout(), res.Response)
			})
		},
	}
	media.register(cmd)

	return cmd
}

func newGroupCommand(a *app) *cobra.Command {
	var media mediaFlags

	cmd := &cobra.Command{
		Use:   "group <group-id> [message]",
		Short: "Send a message to a group",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.sendAddressed(cmd, args, media, validation.IsGroupID, func(c *wabridge.Client, id string, content wabridge.Content) (wabridge.Response, error) {
				return c.SendGroup(cmd.Context(), id, content)
			})
		},
	}
	media.register(cmd)

	return cmd
}

func newChannelCommand(a *app) *cobra.Command {
	var media mediaFlags

	cmd := &cobra.Command{
		Use:   "channel <channel-id> [message]",
		Short: "Send a message to a channel (newsletter)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.sendAddressed(cmd, args, media, validation.IsChannelID, func(c *wabridge.Client, id string, content wabridge.Content) (wabridge.Response, error) {
				return c.SendChannel(cmd.Context(), id, content)
			})
		},
	}
	media.register(cmd)

	return cmd
}

// sendAddressed sends to a group or channel. A malformed ID is only warned
// about; the bridge has the final word.
func (a *app) sendAddressed(
	cmd *cobra.Command,
	args []string,
	media mediaFlags,
	valid func(string) bool,
	send func(*wabridge.Client, string, wabridge.Content) (wabridge.Response, error),
) error {
	id := args[0]
	var message string
	if len(args) > 1 {
		message = args[1]
	}
	content := wabridge.BuildContent(message, media.options(cmd))
	if content == nil {
		return errors.New("nothing to send: give a message or a media flag")
	}

	return a.withClient(cmd, func(c *wabridge.Client) error {
		if !valid(id) {
			a.log.Warnf("%q does not look like a %s ID", id, cmd.Name())
		}
		resp, err := send(c, id, content)
		if err != nil {
			return err
		}
		return outputJSON(cmd.OutOrStdout(), resp)
	})
}

func newBatchCommand(a *app) *cobra.Command {
	var (
		workers int
		async   bool
	)

	cmd := &cobra.Command{
		Use:   "batch <file.csv>",
		Short: "Send text messages to many phone numbers",
		Long: `Send the messages listed in a CSV file with columns phone,message.
A header row naming those columns is optional.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			items, err := parseBatch(f)
			_ = f.Close()
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			return a.withClient(cmd, func(c *wabridge.Client) error {
				if !cmd.Flags().Changed("workers") {
					workers = a.cfg.Batch.MaxWorkers
				}

				var results []wabridge.BatchResult
				if async {
					results, err = c.Async().SendBatch(cmd.Context(), items).Get(cmd.Context())
					if err != nil {
						return err
					}
				} else {
					results = c.SendBatch(cmd.Context(), items, workers)
				}

				out := make([]wabridge.Response, len(results))
				failed := 0
				for i, r := range results {
					out[i] = r.Response
					if !r.OK() {
						failed++
					}
				}
				if err := outputJSON(cmd.OutOrStdout(), out); err != nil {
					return err
				}
				if failed > 0 {
					return fmt.Errorf("%d of %d messages failed", failed, len(results))
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", wabridge.DefaultMaxWorkers, "maximum concurrent sends")
	cmd.Flags().BoolVar(&async, "async", false, "send every message at once without a worker cap")

	return cmd
}

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the current configuration to a TOML file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "wabridge.toml"
			if len(args) > 0 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := a.load(cmd); err != nil {
				return err
			}
			if err := config.Save(path, a.cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)

	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "wabridge %s\n", wabridge.Version)
		},
	}
}
