package advisor

import (
	"fmt"
	"strconv"
	"time"
)

// RateLimitError reports an HTTP 429 from a provider. The fallback chain
// keys its circuit state off Provider and RetryAfter, so providers must
// return this type (not a plain error) for 429 responses.
type RateLimitError struct {
	Err        error
	RetryAfter time.Duration
	Provider   string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// NewRateLimitError wraps err as a RateLimitError. A missing or zero
// retryAfterSecs falls back to 60s rather than reopening the circuit
// immediately.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *RateLimitError {
	if retryAfterSecs <= 0 {
		retryAfterSecs = 60
	}
	return &RateLimitError{
		Err:        err,
		RetryAfter: time.Duration(retryAfterSecs) * time.Second,
		Provider:   provider,
	}
}

// ParseRetryAfterHeader reads a Retry-After header as whole seconds.
// Empty values and the HTTP-date form come back as 0, deferring to the
// NewRateLimitError default.
func ParseRetryAfterHeader(val string) int {
	if val == "" {
		return 0
	}
	secs, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return secs
}
