package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/paeditor/pkg/automaton"
	"github.com/matzehuels/paeditor/pkg/editor"
	"github.com/matzehuels/paeditor/pkg/observability"
)

// editCommand creates the edit command, which opens the interactive editor.
func (c *CLI) editCommand() *cobra.Command {
	var (
		src     source
		output  string
		noCache bool
		opts    submitOpts
	)

	cmd := &cobra.Command{
		Use:   "edit [file] | --log <id>",
		Short: "Edit an automaton interactively",
		Long: `Edit opens an automaton in a terminal editor.

Move with the arrow keys or j/k, select states with space, merge the
selection with m, connect two selected states with c, write the result with
w and submit it with s (requires --log).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				src.file = args[0]
			}
			if err := src.validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			g, client, closeSession, err := c.openSession(ctx, src, noCache)
			if err != nil {
				return err
			}
			defer closeSession()

			ed := editor.NewEditor(g)
			ed.Subscribe(func(o editor.Outcome) {
				if o.Merge != nil {
					observability.Editor().OnMerge(ctx, len(o.Merge.Merged), o.Merge.Rewritten, o.Merge.RootMerged)
				}
			})

			title := src.file
			if src.logID != "" {
				title = "event log " + src.logID
			}
			m := NewEditorModel(ctx, ed, title)

			path := output
			if path == "" {
				path = src.file
			}
			if path == "" {
				path = "log-" + src.logID + ".json"
			}
			m.Write = func(sub automaton.Submission) (string, error) {
				return path, automaton.WriteFile(sub, path)
			}

			if client != nil {
				logID := src.logID
				m.Submit = func(ctx context.Context, sub automaton.Submission) error {
					req, err := opts.request(c, sub)
					if err != nil {
						return err
					}
					err = client.Save(ctx, logID, req)
					observability.Editor().OnSubmit(ctx, logID, len(req.States), len(req.Transitions), err)
					return err
				}
			}

			final, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
			if err != nil {
				return err
			}
			if fm, ok := final.(EditorModel); ok && fm.Dirty {
				printWarning("Quit with unwritten changes")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&src.logID, "log", "", "event log id to load from the backend")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file written by w (default: the input file)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	opts.register(cmd)

	return cmd
}
