package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent error conditions in the shotship domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrRejected is returned when a shot is posted after shutdown began.
	// It is informational: the shot is dropped and nothing else is affected.
	ErrRejected = errors.New("shotship: sender stopped, shot rejected")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("shotship: invalid configuration")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("shotship: shutdown timeout")
)

// StatusError reports a non-success HTTP response from the ingestion service.
type StatusError struct {
	StatusCode int
	Body       string
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Body)
}
