package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error carries an HTTP status and a machine-readable code alongside the
// underlying cause, so handlers can map service failures without string
// matching.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Failure classes of the generation pipeline. Validation, auth, quota and
// lookup rejections are surfaced immediately and never retried; generation
// and persistence failures are surfaced synchronously but leave queued
// requests in place for another attempt.

func Validation(err error) *Error {
	return New(http.StatusBadRequest, "validation_error", err)
}

func Auth(err error) *Error {
	return New(http.StatusUnauthorized, "auth_error", err)
}

func QuotaExceeded(err error) *Error {
	return New(http.StatusForbidden, "quota_exceeded", err)
}

func QuotaNotFound(err error) *Error {
	return New(http.StatusNotFound, "quota_not_found", err)
}

func Lookup(err error) *Error {
	return New(http.StatusBadRequest, "lookup_error", err)
}

func Generation(err error) *Error {
	return New(http.StatusInternalServerError, "generation_failed", err)
}

func Persistence(err error) *Error {
	return New(http.StatusInternalServerError, "persistence_failed", err)
}

// From extracts the *Error from err's chain, or wraps err as a generic 500.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return New(http.StatusInternalServerError, "internal_error", err)
}

func IsCode(err error, code string) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}
