package helpdesk

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors matched by APIError. Use errors.Is() to check.
var (
	ErrBadRequest   = errors.New("helpdesk: bad request")
	ErrUnauthorized = errors.New("helpdesk: unauthorized")
	ErrNotFound     = errors.New("helpdesk: not found")
	ErrUnavailable  = errors.New("helpdesk: service unavailable")
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("helpdesk: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("helpdesk: status %d: %s: %s", e.StatusCode, e.Code, e.Message)
}

// Is maps the HTTP status to the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrBadRequest:
		return e.StatusCode == http.StatusBadRequest
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrUnavailable:
		return e.StatusCode == http.StatusServiceUnavailable
	default:
		return false
	}
}
