package backend

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/paeditor/pkg/cache"
)

// DefaultTimeout bounds a single HTTP request.
const DefaultTimeout = 30 * time.Second

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRetries enables up to n additional attempts for GET requests that
// fail with a retryable error, starting at delay and doubling.
func WithRetries(n int, delay time.Duration) Option {
	return func(c *Client) {
		c.attempts = max(n, 0) + 1
		c.retryDelay = delay
	}
}

// WithCache stores fetched automata in ch for ttl. A ttl of 0 keeps entries
// until they are invalidated.
func WithCache(ch cache.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		if ch != nil {
			c.cache = ch
			c.ttl = ttl
		}
	}
}

// WithLogger sets the logger for request tracing at debug level.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithHeaders adds headers to every request.
func WithHeaders(h map[string]string) Option {
	return func(c *Client) {
		for k, v := range h {
			c.headers[k] = v
		}
	}
}
