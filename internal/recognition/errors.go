package recognition

import (
	"fmt"
	"time"
)

// StatusError indicates the backend answered with a non-2xx status.
type StatusError struct {
	Code int
	Body string

	// RetryAfter is parsed from the Retry-After header on 429 responses.
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("recognition backend responded with status %d: %s", e.Code, e.Body)
	}
	return fmt.Sprintf("recognition backend responded with status %d", e.Code)
}

// UnavailableError indicates the backend could not be reached.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("recognition backend unavailable: %v", e.Err)
	}
	return "recognition backend unavailable"
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// MalformedError indicates the backend's response could not be interpreted.
type MalformedError struct {
	Body string
	Err  error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed recognition response: %v", e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }
