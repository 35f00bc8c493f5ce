package source

import (
	"errors"
	"fmt"
)

// ErrRepoNotConfigured is returned when no usable repository URL is set.
var ErrRepoNotConfigured = errors.New("repository URL not configured")

// StatusError reports a non-2xx response from the raw file endpoint.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d: %s", e.URL, e.StatusCode, e.Status)
}
