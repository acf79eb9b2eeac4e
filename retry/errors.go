package retry

import "fmt"

// RetriesExhaustedError is returned once the maximum number of retry attempts have been exhausted.
type RetriesExhaustedError struct {
	attempts int
	err      error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("exhausted retry attempts (%d): %s", e.attempts, e.err)
}

func (e *RetriesExhaustedError) Unwrap() error {
	return e.err
}

// RetriesAbortedError is returned when retrying is stopped early because the context was cancelled.
type RetriesAbortedError struct {
	attempts int
	err      error
}

func (e *RetriesAbortedError) Error() string {
	return fmt.Sprintf("retrying aborted after %d attempt(s): %s", e.attempts, e.err)
}

func (e *RetriesAbortedError) Unwrap() error {
	return e.err
}
