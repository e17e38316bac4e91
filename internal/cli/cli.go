package cli

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/paeditor/pkg/automaton"
	"github.com/matzehuels/paeditor/pkg/backend"
	"github.com/matzehuels/paeditor/pkg/buildinfo"
	"github.com/matzehuels/paeditor/pkg/cache"
	"github.com/matzehuels/paeditor/pkg/config"
	"github.com/matzehuels/paeditor/pkg/editor"
	"github.com/matzehuels/paeditor/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "paeditor"

	// retryDelay is the first backoff step when retries are configured.
	retryDelay = 500 * time.Millisecond
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	backendURL string
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "paeditor edits prefix automata of process event logs",
		Long:         `paeditor fetches the prefix automaton of an event log from the translucent-log backend, lets you merge states and draw new transitions, and submits the edited automaton back for discovery.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(cmd); err != nil {
				return err
			}
			hooks := logHooks{logger: c.Logger}
			observability.SetEditorHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetHTTPHooks(hooks)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/paeditor/config.toml)")
	root.PersistentFlags().StringVar(&c.backendURL, "backend", "", "backend base URL (overrides config)")

	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.mergeCommand())
	root.AddCommand(c.connectCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.submitCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.logsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())

	return root
}

func (c *CLI) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.backendURL != "" {
		cfg.BackendURL = c.backendURL
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	c.cfg = cfg
	c.Logger.Debug("config loaded", "backend", cfg.BackendURL, "cache", cfg.Cache.Backend)
	return nil
}

// =============================================================================
// Client Factory
// =============================================================================

// newClient creates a backend client with the configured cache. The returned
// close function releases the cache.
func (c *CLI) newClient(ctx context.Context, noCache bool) (*backend.Client, func(), error) {
	ch := c.newCache(ctx, noCache)
	client, err := backend.New(c.cfg.BackendURL,
		backend.WithCache(ch, c.cfg.Cache.TTL.Duration),
		backend.WithRetries(c.cfg.Retries, retryDelay),
		backend.WithHTTPClient(newHTTPClient(c.cfg.Timeout.Duration)),
		backend.WithLogger(c.Logger),
		backend.WithHeaders(map[string]string{"User-Agent": buildinfo.UserAgent()}),
	)
	if err != nil {
		ch.Close()
		return nil, nil, err
	}
	return client, func() { ch.Close() }, nil
}

// newCache opens the configured cache, scoped to the backend URL so automata
// from different backends never collide. Failing to open the cache degrades
// to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	opts := cache.Options{
		Backend:   c.cfg.Cache.Backend,
		RedisAddr: c.cfg.Cache.RedisAddr,
		MongoURI:  c.cfg.Cache.MongoURI,
	}
	if opts.Backend == "" || opts.Backend == cache.BackendFile {
		dir, err := cacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache()
		}
		opts.Dir = dir
	}
	ch, err := cache.Open(ctx, opts)
	if err != nil {
		c.Logger.Warn("cache unavailable, caching disabled", "backend", opts.Backend, "err", err)
		return cache.NewNullCache()
	}
	scope := cache.Hash([]byte(c.cfg.BackendURL))[:12]
	return cache.Scoped(ch, scope)
}

// =============================================================================
// Graph Loading
// =============================================================================

// readGraph reads an automaton file and builds its working graph.
func (c *CLI) readGraph(ctx context.Context, path string) (*editor.Graph, error) {
	a, err := automaton.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return c.buildGraph(ctx, a)
}

// buildGraph builds a working graph with the configured layout and reports
// the build to the editor hooks.
func (c *CLI) buildGraph(ctx context.Context, a *automaton.Automaton) (*editor.Graph, error) {
	start := time.Now()
	g, err := editor.Build(a, editor.WithLayout(c.cfg.Layout))
	if err != nil {
		observability.Editor().OnBuild(ctx, 0, 0, time.Since(start), err)
		return nil, err
	}
	observability.Editor().OnBuild(ctx, g.NodeCount(), g.EdgeCount(), time.Since(start), nil)
	return g, nil
}

// writeSubmission writes the edited graph to path, or to w when path is
// empty or "-".
func writeSubmission(w io.Writer, g *editor.Graph, path string) error {
	sub := editor.Serialize(g)
	if path == "" || path == "-" {
		return automaton.Write(sub, w)
	}
	if err := automaton.WriteFile(sub, path); err != nil {
		return err
	}
	printSuccess("Wrote %d states, %d transitions", len(sub.States), len(sub.Transitions))
	printFile(path)
	return nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/paeditor/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// outputPath derives an output file name from the input when none is given.
func outputPath(input, output, ext string) string {
	if output != "" {
		return output
	}
	base := filepath.Base(input)
	return base[:len(base)-len(filepath.Ext(base))] + "." + ext
}

// newHTTPClient bounds each request by timeout; zero means the client default.
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = backend.DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}
