package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAPIError_Is(t *testing.T) {
	tests := []struct {
		status int
		target error
		want   bool
	}{
		{http.StatusUnauthorized, ErrUnauthorized, true},
		{http.StatusForbidden, ErrForbidden, true},
		{http.StatusNotFound, ErrNotFound, true},
		{http.StatusBadRequest, ErrUnauthorized, false},
		{http.StatusInternalServerError, ErrNotFound, false},
		{http.StatusUnauthorized, ErrTransport, false},
	}
	for _, tt := range tests {
		err := fmt.Errorf("wrapped: %w", &APIError{Status: tt.status})
		if got := errors.Is(err, tt.target); got != tt.want {
			t.Errorf("status %d is %v: got %v, want %v", tt.status, tt.target, got, tt.want)
		}
	}
}

func TestAPIError_Error(t *testing.T) {
	err := &APIError{Status: 404, Message: "Not found."}
	if err.Error() != "api error 404: Not found." {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestStatusOf(t *testing.T) {
	if got := StatusOf(fmt.Errorf("get order 1: %w", &APIError{Status: 403})); got != 403 {
		t.Errorf("expected 403, got %d", got)
	}
	if got := StatusOf(ErrTransport); got != 0 {
		t.Errorf("transport failures carry no status, got %d", got)
	}
	if got := StatusOf(nil); got != 0 {
		t.Errorf("expected 0 for nil, got %d", got)
	}
}
