package shopify

import (
	"errors"
	"fmt"
	"time"
)

// ErrMalformedRecord marks a source record whose external id cannot be
// extracted. It is the only hard validation gate in normalization.
var ErrMalformedRecord = errors.New("malformed record: missing external id")

// RateLimitError reports an upstream throttle. RetryAfter is zero when the
// upstream gave no hint.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited by upstream, retry after %s", e.RetryAfter)
	}
	return "rate limited by upstream"
}

// UpstreamError covers transport failures, non-2xx responses, and malformed
// or error-carrying GraphQL bodies. It aborts the current sync run.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("upstream error: status=%d %s", e.StatusCode, e.Message)
	}
	return "upstream error: " + e.Message
}
