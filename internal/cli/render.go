package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/paeditor/pkg/editor"
	"github.com/matzehuels/paeditor/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string // output file; derived from the input name when empty
	format  string // svg, png or dot
	pinned  bool   // keep the editor's grid positions instead of Graphviz layout
	showIDs bool   // print state ids under the prefix labels
}

// renderCommand creates the render command, which draws an automaton file
// with Graphviz.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: string(render.FormatSVG)}

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render an automaton file to SVG, PNG or DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := render.ParseFormat(opts.format)
			if err != nil {
				return err
			}
			g, err := c.readGraph(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return runRender(cmd, g, args[0], format, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (\"-\" for stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, png, dot")
	cmd.Flags().BoolVar(&opts.pinned, "pinned", false, "use the editor layout instead of Graphviz ranks")
	cmd.Flags().BoolVar(&opts.showIDs, "ids", false, "show state ids")

	return cmd
}

func runRender(cmd *cobra.Command, g *editor.Graph, input string, format render.Format, opts renderOpts) error {
	ctx := cmd.Context()
	prog := newProgress(loggerFromContext(ctx))

	view := editor.NewEditor(g).View()
	dot := render.ToDOT(view, render.Options{Pinned: opts.pinned, ShowIDs: opts.showIDs})
	data, err := render.Render(ctx, dot, format)
	if err != nil {
		return err
	}

	if opts.output == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	path := outputPath(input, opts.output, string(format))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	prog.done("Rendered " + string(format))
	printSuccess("Rendered %d states", g.NodeCount())
	printFile(path)
	return nil
}
