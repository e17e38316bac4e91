package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/paeditor/pkg/automaton"
	"github.com/matzehuels/paeditor/pkg/cache"
	apperrors "github.com/matzehuels/paeditor/pkg/errors"
	"github.com/matzehuels/paeditor/pkg/httputil"
	"github.com/matzehuels/paeditor/pkg/observability"
)

// maxErrorBody limits how much of an error response is quoted in messages.
const maxErrorBody = 256

// Client talks to one backend instance. It is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	http       *http.Client
	headers    map[string]string
	cache      cache.Cache
	ttl        time.Duration
	attempts   int
	retryDelay time.Duration
	logger     *log.Logger
	loads      singleflight.Group
}

// New creates a client for the backend at baseURL, e.g.
// "http://localhost:8000".
func New(baseURL string, opts ...Option) (*Client, error) {
	if err := apperrors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	u, _ := url.Parse(strings.TrimRight(baseURL, "/"))

	c := &Client{
		baseURL:  u,
		http:     &http.Client{Timeout: DefaultTimeout},
		headers:  map[string]string{"Accept": "application/json"},
		cache:    cache.NewNullCache(),
		attempts: 1,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the backend address the client was created with.
func (c *Client) BaseURL() string { return c.baseURL.String() }

// ListEventLogs returns every uploaded event log.
func (c *Client) ListEventLogs(ctx context.Context) ([]automaton.EventLog, error) {
	var logs []automaton.EventLog
	if err := c.getJSON(ctx, "event-logs", &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// GetEventLog returns one event log.
func (c *Client) GetEventLog(ctx context.Context, id string) (automaton.EventLog, error) {
	var el automaton.EventLog
	if err := apperrors.ValidateEventLogID(id); err != nil {
		return el, err
	}
	err := c.getJSON(ctx, "event-logs/"+url.PathEscape(id), &el)
	return el, err
}

// Columns returns the column names of an event log, the candidates for a
// submission's selected columns.
func (c *Client) Columns(ctx context.Context, id string) ([]string, error) {
	if err := apperrors.ValidateEventLogID(id); err != nil {
		return nil, err
	}
	var cols []string
	if err := c.getJSON(ctx, "event-logs/"+url.PathEscape(id)+"/columns", &cols); err != nil {
		return nil, err
	}
	return cols, nil
}

// Load fetches the prefix automaton of an event log, reading through the
// cache. Concurrent calls for the same id share one request; every caller
// receives its own copy. The shared request outlives the caller that started
// it; a caller whose ctx ends stops waiting without failing the others.
func (c *Client) Load(ctx context.Context, id string) (*automaton.Automaton, error) {
	if err := apperrors.ValidateEventLogID(id); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ch := c.loads.DoChan(id, func() (any, error) {
		return c.load(context.WithoutCancel(ctx), id)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.logger.Debug("joined in-flight load", "log", id)
		}
		return res.Val.(*automaton.Automaton).Clone(), nil
	}
}

func (c *Client) load(ctx context.Context, id string) (*automaton.Automaton, error) {
	key := cache.AutomatonKey(id)

	data, hit, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache read failed", "key", key, "err", err)
	}
	if hit {
		a, err := automaton.Read(bytes.NewReader(data))
		if err == nil {
			observability.Cache().OnCacheHit(ctx, key)
			c.logger.Debug("cache hit", "key", key)
			return a, nil
		}
		c.logger.Warn("discarding unreadable cache entry", "key", key, "err", err)
	}
	observability.Cache().OnCacheMiss(ctx, key)

	err = httputil.Retry(ctx, c.attempts, c.retryDelay, func() error {
		var ferr error
		data, ferr = c.get(ctx, "event-logs/"+url.PathEscape(id)+"/prefix-automaton")
		return ferr
	})
	if err != nil {
		return nil, err
	}

	a, err := automaton.Read(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "prefix automaton of event log %s", id)
	}

	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("cache write failed", "key", key, "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, key, len(data))
	}
	return a, nil
}

// Invalidate drops the cached automaton of an event log.
func (c *Client) Invalidate(ctx context.Context, id string) error {
	return c.cache.Delete(ctx, cache.AutomatonKey(id))
}

// Save submits an edited automaton for translucification. The request is
// sent exactly once. On success the cached automaton is invalidated, since
// the backend recomputes it.
func (c *Client) Save(ctx context.Context, id string, req automaton.SubmitRequest) error {
	if err := apperrors.ValidateEventLogID(id); err != nil {
		return err
	}
	if req.Method == "" {
		req.Method = automaton.DefaultMethod
	}
	if req.SelectedColumns == nil {
		req.SelectedColumns = []automaton.ColumnDefinition{}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "encode submission")
	}

	rc, err := c.do(ctx, http.MethodPost, "event-logs/"+url.PathEscape(id)+"/prefix-automaton", body)
	if err != nil {
		return err
	}
	rc.Close()

	if err := c.Invalidate(ctx, id); err != nil {
		c.logger.Warn("cache invalidation failed", "log", id, "err", err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	var data []byte
	err := httputil.Retry(ctx, c.attempts, c.retryDelay, func() error {
		var ferr error
		data, ferr = c.get(ctx, path)
		return ferr
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode %s", path)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, httputil.Retryable(apperrors.Wrap(apperrors.ErrCodeNetwork, err, "read %s", path))
	}
	return data, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (io.ReadCloser, error) {
	u := c.baseURL.JoinPath(path)

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "build request")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, method, u.Host, u.Path)
	c.logger.Debug("request", "method", method, "url", u.String())
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, u.Host, u.Path, err)
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.Wrap(apperrors.ErrCodeTimeout, err, "%s %s", method, u.Path)
		}
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, httputil.Retryable(apperrors.Wrap(apperrors.ErrCodeNetwork, err, "%s %s", method, u.Path))
	}
	hooks.OnResponse(ctx, method, u.Host, u.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, fmt.Errorf("%s %s: %w", method, u.Path, err)
	}
	return resp.Body, nil
}

func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return apperrors.New(apperrors.ErrCodeNotFound, "not found")
	case code >= 500:
		return httputil.Retryable(apperrors.New(apperrors.ErrCodeNetwork, "status %d", code))
	default:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := strings.TrimSpace(string(snippet))
		if msg == "" {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "rejected with status %d", code)
		}
		return apperrors.New(apperrors.ErrCodeInvalidInput, "rejected with status %d: %s", code, msg)
	}
}
