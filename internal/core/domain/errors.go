package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("access forbidden")
	ErrNotFound              = errors.New("not found")
	ErrTransport             = errors.New("transport failure")
	ErrNoRefreshCredential   = errors.New("no refresh credential held")
	ErrRefreshRejected       = errors.New("refresh credential rejected")
	ErrIncompleteCredentials = errors.New("credential pair must hold both access and refresh")
	ErrNotAuthenticated      = errors.New("not authenticated")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrInvalidOrder          = errors.New("invalid service order")
)

// APIError is a non-success answer from the remote API. Message comes from
// the response body when it carries one, otherwise from the status text.
// Body is the raw payload, kept for callers that need field-level detail.
type APIError struct {
	Status  int
	Message string
	Body    []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Is lets callers test the status class with errors.Is.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// StatusOf returns the upstream status carried by err, or 0 when err is not
// an APIError (transport failures have no status).
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
