package api

import (
	"fmt"
	"net/http"

	"github.com/vetsoap/vetsoap-go/internal/common"
)

// Error is a typed API failure carrying the HTTP status and whether the
// caller may retry. Status 0 means the request never completed (timeout or
// transport failure), which is always retryable.
type Error struct {
	Status    int
	Message   string
	Retryable bool
	cause     error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// Unwrap maps well-known statuses onto the shared sentinels so callers can
// use errors.Is without inspecting status codes.
func (e *Error) Unwrap() error {
	if e.cause != nil {
		return e.cause
	}
	switch e.Status {
	case http.StatusUnauthorized:
		return common.ErrUnauthorized
	case http.StatusNotFound:
		return common.ErrNotFound
	}
	if e.Status == 0 || e.Status >= http.StatusInternalServerError {
		return common.ErrUnavailable
	}
	return nil
}

// userSafeMessage maps a status to a message safe to show end users.
// Backend detail must not leak in production; 422 validation messages are
// written for users and pass through.
func userSafeMessage(status int, serverMessage string) string {
	switch {
	case status == http.StatusUnauthorized:
		return "Your session has expired. Please sign in again."
	case status == http.StatusForbidden:
		return "You don't have permission to do that."
	case status == http.StatusNotFound:
		return "The requested item could not be found."
	case status == http.StatusUnprocessableEntity && serverMessage != "":
		return serverMessage
	case status == http.StatusTooManyRequests:
		return "Too many requests. Please wait a moment and try again."
	case status >= http.StatusInternalServerError:
		return "Something went wrong on our end. Please try again."
	default:
		return "Request failed. Please try again."
	}
}
