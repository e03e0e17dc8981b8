// Package apperror defines the classified application error carried from
// services up to the HTTP boundary.
//
// An *Error is the only failure shape the HTTP layer maps to a non-500
// response; everything else is treated as an unexpected internal failure.
package apperror

import "net/http"

// Error is an application-layer error that can be mapped to an HTTP response.
//
// Status and Message are set at construction and must not be mutated
// afterwards; an instance is constructed where a handler or service detects
// a classified failure and is consumed once at the HTTP boundary.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// New constructs a classified error. An empty message is replaced with the
// standard status text so the message is always non-empty.
func New(status int, message string) *Error {
	if message == "" {
		message = http.StatusText(status)
	}
	return &Error{Status: status, Message: message}
}

func NotFound(message string) *Error { return New(http.StatusNotFound, message) }

func Unauthorized(message string) *Error { return New(http.StatusUnauthorized, message) }

func Forbidden(message string) *Error { return New(http.StatusForbidden, message) }

func Conflict(message string) *Error { return New(http.StatusConflict, message) }

// Validation classifies request-content failures (422).
func Validation(message string) *Error { return New(http.StatusUnprocessableEntity, message) }

// BadRequest classifies malformed requests that never reached validation (400).
func BadRequest(message string) *Error { return New(http.StatusBadRequest, message) }
