package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/paeditor/internal/server"
	"github.com/matzehuels/paeditor/pkg/automaton"
	"github.com/matzehuels/paeditor/pkg/backend"
	"github.com/matzehuels/paeditor/pkg/editor"
	apperrors "github.com/matzehuels/paeditor/pkg/errors"
	"github.com/matzehuels/paeditor/pkg/observability"
)

// submitOpts holds the discovery parameters sent with a submission.
type submitOpts struct {
	columns   []string // name or name:type
	threshold float64
	method    string
}

// register binds the submission flags to cmd, defaulting to the config.
func (o *submitOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&o.columns, "column", nil, "event-log column to use as a feature, name[:numerical|categorical] (repeatable)")
	cmd.Flags().Float64Var(&o.threshold, "threshold", -1, "discovery threshold in [0, 1] (default from config)")
	cmd.Flags().StringVar(&o.method, "method", "", "discovery method (default from config)")
}

// request builds the submit request for sub.
func (o submitOpts) request(c *CLI, sub automaton.Submission) (automaton.SubmitRequest, error) {
	req := automaton.SubmitRequest{
		Submission:      sub,
		SelectedColumns: []automaton.ColumnDefinition{},
		Threshold:       c.cfg.Submit.Threshold,
		Method:          c.cfg.Submit.Method,
	}
	for _, s := range o.columns {
		col, err := automaton.ParseColumn(s)
		if err != nil {
			return req, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "--column")
		}
		req.SelectedColumns = append(req.SelectedColumns, col)
	}
	if o.threshold >= 0 {
		if o.threshold > 1 {
			return req, apperrors.New(apperrors.ErrCodeInvalidInput, "--threshold %v outside [0, 1]", o.threshold)
		}
		req.Threshold = o.threshold
	}
	if o.method != "" {
		req.Method = o.method
	}
	return req, nil
}

// submitCommand creates the submit command, which sends an edited automaton
// file to the backend for discovery.
func (c *CLI) submitCommand() *cobra.Command {
	var opts submitOpts

	cmd := &cobra.Command{
		Use:   "submit <log-id> <file>",
		Short: "Submit an edited automaton for discovery",
		Example: `  paeditor submit 42 log-42.edited.json --column amount:numerical --column region`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			g, err := c.readGraph(ctx, args[1])
			if err != nil {
				return err
			}
			req, err := opts.request(c, editor.Serialize(g))
			if err != nil {
				return err
			}

			client, closeCache, err := c.newClient(ctx, false)
			if err != nil {
				return err
			}
			defer closeCache()

			return submit(ctx, client, args[0], req)
		},
	}

	opts.register(cmd)
	return cmd
}

// submit sends req once, showing a spinner while the request runs.
func submit(ctx context.Context, s server.Submitter, logID string, req automaton.SubmitRequest) error {
	spin := newSpinner(ctx, "Submitting to event log "+logID)
	spin.Start()

	start := time.Now()
	err := s.Save(ctx, logID, req)
	observability.Editor().OnSubmit(ctx, logID, len(req.States), len(req.Transitions), err)
	if err != nil {
		spin.StopWithError("Submission failed: %s", apperrors.UserMessage(err))
		return err
	}
	spin.StopWithSuccess("Submitted %d states, %d transitions (%s)", len(req.States), len(req.Transitions), time.Since(start).Round(time.Millisecond))
	printDetail("method %s, threshold %g, %d column(s)", req.Method, req.Threshold, len(req.SelectedColumns))
	return nil
}

var _ server.Submitter = (*backend.Client)(nil)
