// Package cli implements the paeditor command-line interface.
//
// Commands fetch prefix automata from the backend, edit them offline or in
// an interactive terminal editor, render them with Graphviz, serve them to a
// browser front end and submit edited automata back. The CLI is built using
// cobra and logs through charmbracelet/log.
//
// # Commands
//
//   - fetch, logs: read from the backend (cached)
//   - show, merge, connect, render: work on automaton files
//   - edit: interactive bubbletea editor
//   - submit: send an edited automaton for discovery
//   - serve: HTTP API over one editing session
//   - cache, config: manage local state
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context, and observability hooks forward editor,
// cache and HTTP events to the same logger.
package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

// Execute runs the CLI with args, logging to stderr. It is the entry point
// used by main; tests call it with their own writers.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var verbose bool

	c := New(stderr, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SilenceErrors = true
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	preRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := LogInfo
		if verbose {
			level = LogDebug
		}
		c.SetLogLevel(level)
		return preRun(cmd, args)
	}

	return root.ExecuteContext(ctx)
}
