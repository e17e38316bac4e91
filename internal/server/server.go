// Package server exposes an editor session over HTTP for a browser front end.
//
// All handlers share one [editor.Editor] and serialize access to it with a
// mutex, so the editor sees one event at a time, as it would on a UI thread.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/paeditor/pkg/automaton"
	"github.com/matzehuels/paeditor/pkg/editor"
)

// Submitter sends an edited automaton to the backend.
// *backend.Client implements it.
type Submitter interface {
	Save(ctx context.Context, id string, req automaton.SubmitRequest) error
}

// Server serves one editing session.
type Server struct {
	mu        sync.Mutex
	ed        *editor.Editor
	logID     string
	submitter Submitter
	defaults  automaton.SubmitRequest
	logger    *log.Logger
}

// Option configures a [Server].
type Option func(*Server)

// WithSubmitter enables POST /submit for the given event log.
func WithSubmitter(logID string, s Submitter) Option {
	return func(srv *Server) {
		srv.logID = logID
		srv.submitter = s
	}
}

// WithSubmitDefaults sets the method and threshold used when a submit
// request leaves them out.
func WithSubmitDefaults(method string, threshold float64) Option {
	return func(srv *Server) {
		srv.defaults.Method = method
		srv.defaults.Threshold = threshold
	}
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(srv *Server) {
		if l != nil {
			srv.logger = l
		}
	}
}

// New creates a server for ed. The server takes ownership of ed; callers
// must not use it concurrently.
func New(ed *editor.Editor, opts ...Option) *Server {
	s := &Server{
		ed:       ed,
		defaults: automaton.SubmitRequest{Method: automaton.DefaultMethod},
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/graph", s.getGraph)
	r.Post("/nodes/{id}/toggle", s.toggleNode)
	r.Post("/edges", s.createEdge)
	r.Post("/merge", s.merge)
	r.Delete("/selection", s.clearSelection)
	r.Get("/automaton", s.getAutomaton)
	r.Post("/submit", s.submit)
	r.Get("/render.svg", s.renderSVG)
	r.Get("/render.dot", s.renderDOT)

	return enableCORS(r)
}

// ListenAndServe serves the API on addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- hs.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// locked runs fn with exclusive access to the editor.
func (s *Server) locked(fn func(ed *editor.Editor)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.ed)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path,
			"status", ww.Status(), "duration", time.Since(start).Round(time.Microsecond))
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
