package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/paeditor/pkg/editor"
	apperrors "github.com/matzehuels/paeditor/pkg/errors"
	"github.com/matzehuels/paeditor/pkg/observability"
)

// showCommand creates the show command, which prints a graph's states and
// transitions with their computed layout.
func (c *CLI) showCommand() *cobra.Command {
	var edges bool

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Print the states and layout of an automaton file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.readGraph(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, nodeTable(g, func(string) bool { return false }, -1, 0, 0))
			if edges {
				fmt.Fprintln(w, edgeTable(g))
			}
			printStats(g.NodeCount(), g.EdgeCount())
			return nil
		},
	}

	cmd.Flags().BoolVar(&edges, "edges", false, "also list transitions")
	return cmd
}

// mergeCommand creates the merge command. Each --states flag names one group
// of states that is merged into a single state; groups are applied in order.
func (c *CLI) mergeCommand() *cobra.Command {
	var (
		groups []string
		output string
	)

	cmd := &cobra.Command{
		Use:   "merge <file> --states a,b [--states c,d ...]",
		Short: "Merge groups of states in an automaton file",
		Example: `  paeditor merge log-42.json --states s3,s5 -o log-42.edited.json
  paeditor merge log-42.json --states s1,s2 --states s7,s8,s9`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			g, err := c.readGraph(ctx, args[0])
			if err != nil {
				return err
			}
			for _, group := range groups {
				ids, err := parseStateList(group, g.HasNode)
				if err != nil {
					return err
				}
				res, ok := g.Merge(ids)
				if !ok {
					return apperrors.New(apperrors.ErrCodeInvalidInput, "no states given in %q", group)
				}
				observability.Editor().OnMerge(ctx, len(res.Merged), res.Rewritten, res.RootMerged)
				if res.RootMerged {
					printWarning("Merged the root state into %q", res.Node.ID)
				}
				printInfo("Merged %s into %q", strings.Join(res.Merged, " + "), res.Node.ID)
			}
			return writeSubmission(cmd.OutOrStdout(), g, output)
		},
	}

	cmd.Flags().StringArrayVar(&groups, "states", nil, "comma-separated state ids to merge, merged ids included (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.MarkFlagRequired("states")
	return cmd
}

// parseStateList splits a comma-separated id list against the states of a
// graph. Merged ids contain ", " themselves, so the longest run of parts
// naming a known state wins. Blanks are dropped and any other part is an
// error.
func parseStateList(s string, known func(string) bool) ([]string, error) {
	parts := strings.Split(s, ",")
	var ids []string
	for i := 0; i < len(parts); {
		if strings.TrimSpace(parts[i]) == "" {
			i++
			continue
		}
		j := len(parts)
		for ; j > i; j-- {
			if known(strings.TrimSpace(strings.Join(parts[i:j], ","))) {
				break
			}
		}
		if j == i {
			return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "unknown state %q in %q", strings.TrimSpace(parts[i]), s)
		}
		ids = append(ids, strings.TrimSpace(strings.Join(parts[i:j], ",")))
		i = j
	}
	return ids, nil
}

// connectCommand creates the connect command, which draws a new transition
// between two existing states.
func (c *CLI) connectCommand() *cobra.Command {
	var from, to, output string

	cmd := &cobra.Command{
		Use:   "connect <file> --from <state> --to <state>",
		Short: "Add a transition between two states",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.readGraph(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			ed := editor.NewEditor(g)
			e, ok := ed.Connect(from, to)
			if !ok {
				return apperrors.New(apperrors.ErrCodeInvalidInput, "cannot connect %q to %q: unknown state", from, to)
			}
			printInfo("Added transition %s: %s %s %s", e.ID, e.Source, iconArrow, e.Target)
			return writeSubmission(cmd.OutOrStdout(), g, output)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "source state id")
	cmd.Flags().StringVar(&to, "to", "", "target state id")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	return cmd
}
