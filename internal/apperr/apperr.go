// Package apperr carries domain errors with their HTTP mapping so the
// planning and store layers can raise them without importing net/http
// handler code.
package apperr

import (
	"encoding/json"
	"errors"
	"net/http"
)

type Error struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

func (e *Error) Error() string { return e.Message }

func New(status int, msg string) *Error {
	return &Error{StatusCode: status, Message: msg}
}

func BadRequest(msg string) *Error   { return New(http.StatusBadRequest, msg) }
func Unauthorized(msg string) *Error { return New(http.StatusUnauthorized, msg) }
func Forbidden(msg string) *Error    { return New(http.StatusForbidden, msg) }
func NotFound(msg string) *Error     { return New(http.StatusNotFound, msg) }
func Conflict(msg string) *Error     { return New(http.StatusConflict, msg) }

// Status returns the HTTP status for err, or 500 for anything that is
// not a domain error.
func Status(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

// Write sends err as the {message, statusCode} JSON body clients
// substring-match against. Non-domain errors are masked.
func Write(w http.ResponseWriter, err error) {
	body := &Error{StatusCode: http.StatusInternalServerError, Message: "Erreur interne du serveur"}
	var e *Error
	if errors.As(err, &e) {
		body = e
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(body.StatusCode)
	_ = json.NewEncoder(w).Encode(body)
}
