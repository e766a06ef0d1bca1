package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrConnectivity marks calls that never produced an HTTP response
// at all: DNS failure, refused connection, timeout.
var ErrConnectivity = errors.New("cannot reach server")

// Error is a non-2xx response from the backend.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

// StatusOf returns the HTTP status carried by err, or 0 for
// connectivity failures and unknown errors.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// UserMessage converts any API call failure into the string shown to
// the user. Every failure is terminal for that single operation; the
// user retries by re-triggering the action.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrConnectivity) {
		return "Cannot reach the server. Please check your connection."
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return "Something went wrong. Please try again."
	}

	switch apiErr.Status {
	case http.StatusUnauthorized:
		return "Your session has expired. Please log in again."
	case http.StatusForbidden:
		return "You are not authorized to perform this action."
	case http.StatusNotFound:
		return "The requested resource was not found."
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if strings.Contains(strings.ToLower(apiErr.Message), "email") {
			return "This email is already registered."
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return "The submitted data was rejected. Please review and retry."
	case http.StatusInternalServerError, http.StatusServiceUnavailable:
		return "The server had a problem. Please try again later."
	default:
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return "Something went wrong. Please try again."
	}
}
