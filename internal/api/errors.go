package api

import (
	"errors"
	"net/http"
)

type ErrorKind string

const (
	ErrorUnauthorized     ErrorKind = "unauthorized"
	ErrorNotFound         ErrorKind = "not_found"
	ErrorValidationFailed ErrorKind = "validation_failed"
	ErrorNetwork          ErrorKind = "network"
	ErrorServer           ErrorKind = "server"
)

// Error is the single failure type the client produces. Message is
// user-facing: the server's message when it sent one, a generic
// fallback otherwise. StatusCode is zero when no response arrived.
type Error struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Kind)
}

// KindOf extracts the error kind, or "" for errors that did not come
// from the API client.
func KindOf(err error) ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

func IsUnauthorized(err error) bool { return KindOf(err) == ErrorUnauthorized }
func IsNotFound(err error) bool     { return KindOf(err) == ErrorNotFound }

func kindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized:
		return ErrorUnauthorized
	case status == http.StatusNotFound:
		return ErrorNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return ErrorValidationFailed
	default:
		return ErrorServer
	}
}

func fallbackMessage(kind ErrorKind) string {
	switch kind {
	case ErrorUnauthorized:
		return "authentication failed. Please log in again."
	case ErrorNotFound:
		return "the requested item was not found."
	case ErrorValidationFailed:
		return "the server rejected the request."
	case ErrorNetwork:
		return "a network error occurred. Please try again."
	default:
		return "the server returned an unexpected response."
	}
}
