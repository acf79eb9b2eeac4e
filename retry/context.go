package retry

import "context"

// Context wraps a 'context.Context' with the state of the current retry attempt.
type Context struct {
	context.Context

	attempt int
}

// NewContext returns a new retry context wrapping the given parent context, beginning at attempt one.
func NewContext(ctx context.Context) *Context {
	return &Context{Context: ctx, attempt: 1}
}

// Attempt returns the current (one-indexed) attempt number.
func (c *Context) Attempt() int {
	return c.attempt
}
