package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/paeditor/pkg/automaton"
)

// fetchOpts holds the command-line flags for the fetch command.
type fetchOpts struct {
	output  string // output file; stdout when empty
	noCache bool   // bypass the cache entirely
	refresh bool   // drop the cached entry before fetching
}

// fetchCommand creates the fetch command, which downloads the prefix
// automaton of an event log.
func (c *CLI) fetchCommand() *cobra.Command {
	var opts fetchOpts

	cmd := &cobra.Command{
		Use:   "fetch <log-id>",
		Short: "Download the prefix automaton of an event log",
		Long: `Fetch downloads the prefix automaton the backend computed for an event log.

Responses are cached (see "paeditor cache"). Use --refresh to fetch again
after the event log changed, or --no-cache to skip the cache entirely.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFetch(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore any cached copy")

	return cmd
}

func (c *CLI) runFetch(cmd *cobra.Command, id string, opts fetchOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	client, closeCache, err := c.newClient(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer closeCache()

	if opts.refresh {
		if err := client.Invalidate(ctx, id); err != nil {
			logger.Warn("could not drop cached automaton", "log", id, "err", err)
		}
	}

	prog := newProgress(logger)
	a, err := client.Load(ctx, id)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Fetched automaton of event log %s", id))

	if opts.output == "" || opts.output == "-" {
		return automaton.Write(a, cmd.OutOrStdout())
	}
	if err := automaton.WriteFile(a, opts.output); err != nil {
		return err
	}
	printSuccess("Saved prefix automaton of event log %s", id)
	printStats(len(a.States), len(a.Transitions))
	printFile(opts.output)
	printNextStep("Edit it", "paeditor edit "+opts.output)
	return nil
}

// logsCommand creates the logs command, which lists uploaded event logs.
func (c *CLI) logsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logs",
		Short: "List event logs known to the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closeCache, err := c.newClient(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer closeCache()

			logs, err := client.ListEventLogs(cmd.Context())
			if err != nil {
				return err
			}
			if len(logs) == 0 {
				printInfo("No event logs on %s", client.BaseURL())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), logTable(logs))
			return nil
		},
	}
}
