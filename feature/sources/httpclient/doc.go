// Package httpclient is the HTTP plumbing shared by source connectors.
//
// Requests are throttled with a token bucket (golang.org/x/time/rate) and retried
// with exponential backoff (cenkalti/backoff) on network errors, 429 and 5xx
// responses. Other non-2xx responses fail immediately with a StatusError whose body
// is truncated for logging.
package httpclient
