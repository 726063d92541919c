package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is returned (wrapped) when the backend answers 404.
var ErrNotFound = errors.New("not found")

// AuthError indicates that the session is missing, expired, or was
// rejected. The backend signals this with 401 or a redirect to /login.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%d): %s", e.Status, e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// StatusError is a non-2xx response that is neither 404 nor an auth failure.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf(
		"unexpected status %d on %s %s: %s",
		e.Code, e.Method, e.Path, e.Body,
	)
}

// StatusCode extracts the HTTP status from err, or 0 when err did not come
// from a response.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Status
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	return 0
}
