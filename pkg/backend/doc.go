// Package backend is the REST client for the translucent-log backend.
//
// The editor consumes four read endpoints and one write endpoint:
//
//	GET  /event-logs                          list uploaded event logs
//	GET  /event-logs/{id}                     one event log
//	GET  /event-logs/{id}/columns             column names of an event log
//	GET  /event-logs/{id}/prefix-automaton    the discovered prefix automaton
//	POST /event-logs/{id}/prefix-automaton    submit an edited automaton
//
// # Errors
//
// Failures carry a code from pkg/errors:
//   - NOT_FOUND for 404 responses
//   - NETWORK_ERROR for transport failures and 5xx responses (retryable)
//   - TIMEOUT when the context deadline expires
//   - INVALID_INPUT for other 4xx responses and bad event log ids
//   - INVALID_FORMAT when a response body cannot be decoded
//
// # Caching and retries
//
// [Client.Load] reads through a [cache.Cache] under the key
// "event-logs:{id}:prefix-automaton" and collapses concurrent loads of the
// same event log into one request. [Client.Save] invalidates that key.
//
// A client makes one attempt per request unless [WithRetries] is given.
// Retries apply to GET requests only; a submission is never sent twice.
package backend
