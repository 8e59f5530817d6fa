package source

import (
	"errors"
	"fmt"
)

// ErrFetchFailed is the single error kind exposed by the data loader.
// It covers transport failures, non-2xx responses and undecodable bodies.
var ErrFetchFailed = errors.New("fetch failed")

// FetchError carries the details of a failed load for logging.
// Callers should only test it with errors.Is(err, ErrFetchFailed).
type FetchError struct {
	// URL is the requested endpoint.
	URL string

	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("fetching %s: HTTP %d: %v", e.URL, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("fetching %s: HTTP %d", e.URL, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("fetching %s: %v", e.URL, ErrFetchFailed)
	}
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is makes every FetchError match ErrFetchFailed.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailed
}
