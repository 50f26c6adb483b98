package apperrors

import (
	"errors"
	"net/http"
)

// Error is a typed error carrying an HTTP status alongside the message.
// Every failure path in the API constructs one of these and hands it to
// the centralized responder.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(message string, status int) *Error {
	return &Error{Status: status, Message: message}
}

func BadRequest(message string) *Error {
	return New(message, http.StatusBadRequest)
}

func Unauthorized(message string) *Error {
	return New(message, http.StatusUnauthorized)
}

func Forbidden(message string) *Error {
	return New(message, http.StatusForbidden)
}

func NotFound(message string) *Error {
	return New(message, http.StatusNotFound)
}

func Unprocessable(message string) *Error {
	return New(message, http.StatusUnprocessableEntity)
}

// From converts any error into an *Error. Errors that are not already typed
// are treated as store/runtime failures and wrapped as 422, matching the
// attempt-once semantics of the handlers.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Unprocessable(err.Error())
}

// StatusOf reports the HTTP status an error maps to.
func StatusOf(err error) int {
	return From(err).Status
}
