// Package httputil provides retry helpers for the backend client.
//
// # Retry
//
// [Retry] re-runs an operation for transient failures only. Callers mark an
// error as transient by wrapping it with [Retryable]:
//
//   - Transport errors (connection refused, timeouts)
//   - 5xx server errors
//
// Anything else, including 404 and other 4xx responses, is returned on the
// first attempt. The delay doubles after every failed attempt and the wait
// is abandoned as soon as the context is cancelled:
//
//	err := httputil.Retry(ctx, 3, 500*time.Millisecond, func() error {
//	    return fetch(ctx)
//	})
//
// The backend client does not retry by default; `paeditor --retries N` or
// `retries = N` in the config file opt in. Submissions are never retried.
package httputil
