package publicdata

import (
	"errors"
	"fmt"
)

var (
	// ErrFallbackFailed means the subprocess transport produced no usable
	// document. It is distinct from a valid but empty document.
	ErrFallbackFailed = errors.New("fallback transport failed")

	// ErrInvalidJSON means a response arrived but its body was not JSON.
	// It never triggers the fallback transport.
	ErrInvalidJSON = errors.New("response body is not valid JSON")
)

// StatusError is returned for non-2xx upstream responses.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %s", e.Status)
}
