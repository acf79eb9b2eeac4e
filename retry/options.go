package retry

import "time"

// Algorithm represents a backoff algorithm used to calculate the delay between retry attempts.
type Algorithm int

const (
	// AlgorithmFibonacci increases the delay between retries following the Fibonacci sequence.
	AlgorithmFibonacci Algorithm = iota

	// AlgorithmLinear increases the delay between retries linearly.
	AlgorithmLinear

	// AlgorithmExponential doubles the delay between retries on each attempt.
	AlgorithmExponential
)

// LogFunc is invoked after a failed attempt which will be retried.
type LogFunc func(ctx *Context, payload any, err error)

// ShouldRetryFunc allows a caller to customize whether a given attempt should be retried based on its payload/error.
type ShouldRetryFunc func(ctx *Context, payload any, err error) bool

// CleanupFunc is invoked to clean up the payload of an attempt which is about to be retried.
type CleanupFunc func(payload any)

// RetryerOptions encapsulates the options available when constructing a 'Retryer'.
type RetryerOptions struct {
	// Algorithm used to calculate the delay between retry attempts. Defaults to 'AlgorithmFibonacci'.
	Algorithm Algorithm

	// MaxRetries is the maximum number of attempts, the first call included. Defaults to three.
	MaxRetries int

	// MinDelay is the minimum delay between retry attempts. Defaults to 50ms.
	MinDelay time.Duration

	// MaxDelay is the maximum delay between retry attempts. Defaults to 5s.
	MaxDelay time.Duration

	// ShouldRetry allows overriding the default "retry on any error" behavior.
	ShouldRetry ShouldRetryFunc

	// Cleanup is invoked with the payload of any attempt which will be retried (not the final attempt).
	Cleanup CleanupFunc

	// Log is invoked after any failed attempt which will be retried.
	Log LogFunc
}

// defaults fills any missing attributes with sane defaults.
func (o *RetryerOptions) defaults() {
	if o.MaxRetries == 0 {
		o.MaxRetries = 3
	}

	if o.MinDelay == 0 {
		o.MinDelay = 50 * time.Millisecond
	}

	if o.MaxDelay == 0 {
		o.MaxDelay = 5 * time.Second
	}
}
