package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/paeditor/internal/server"
	"github.com/matzehuels/paeditor/pkg/backend"
	"github.com/matzehuels/paeditor/pkg/editor"
)

// source names where an editing session's automaton comes from: a backend
// event log or a local file. Exactly one is set.
type source struct {
	logID string
	file  string
}

func (s source) validate() error {
	switch {
	case s.logID == "" && s.file == "":
		return errors.New("give an automaton file or --log <id>")
	case s.logID != "" && s.file != "":
		return errors.New("give either an automaton file or --log, not both")
	}
	return nil
}

// openSession loads the session's automaton and builds its graph. The client
// is non-nil when the session is bound to an event log; the caller must call
// the returned close function.
func (c *CLI) openSession(ctx context.Context, src source, noCache bool) (*editor.Graph, *backend.Client, func(), error) {
	if src.file != "" {
		g, err := c.readGraph(ctx, src.file)
		return g, nil, func() {}, err
	}

	client, closeCache, err := c.newClient(ctx, noCache)
	if err != nil {
		return nil, nil, nil, err
	}

	spin := newSpinner(ctx, "Loading event log "+src.logID)
	spin.Start()
	a, err := client.Load(ctx, src.logID)
	spin.Stop()
	if err != nil {
		closeCache()
		return nil, nil, nil, err
	}
	g, err := c.buildGraph(ctx, a)
	if err != nil {
		closeCache()
		return nil, nil, nil, err
	}
	return g, client, closeCache, nil
}

// serveCommand creates the serve command, which exposes one editing session
// over HTTP for a browser front end.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		src     source
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve [file] | --log <id>",
		Short: "Serve an editing session over HTTP",
		Args:  cobra.MaximumNArgs(1),
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

			opts := []server.Option{
				server.WithLogger(c.Logger),
				server.WithSubmitDefaults(c.cfg.Submit.Method, c.cfg.Submit.Threshold),
			}
			if client != nil {
				opts = append(opts, server.WithSubmitter(src.logID, client))
			}
			srv := server.New(editor.NewEditor(g), opts...)

			printSuccess("Serving %d states on http://%s", g.NodeCount(), displayAddr(addr))
			if client == nil {
				printDetail("POST /submit is disabled; start with --log to enable it")
			}
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&src.logID, "log", "", "event log id to load from the backend")
	cmd.Flags().StringVar(&src.file, "file", "", "automaton file to serve")
	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
