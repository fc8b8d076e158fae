package apperror

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindNotFound     Kind = "NOT_FOUND"
	KindValidation   Kind = "VALIDATION_ERROR"
	KindDomainState  Kind = "DOMAIN_STATE"
	KindConflict     Kind = "CONFLICT"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindForbidden    Kind = "FORBIDDEN"
	KindUnavailable  Kind = "SERVICE_UNAVAILABLE"
	KindUnexpected   Kind = "INTERNAL_ERROR"
)

type Error struct {
	Kind       Kind
	Code       string
	Message    string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, code string, message string, status int, err error) *Error {
	if code == "" {
		code = string(kind)
	}
	return &Error{Kind: kind, Code: code, Message: message, StatusCode: status, Err: err}
}

func NotFound(message string) *Error {
	return newError(KindNotFound, "", message, http.StatusNotFound, nil)
}

func Validation(message string) *Error {
	return newError(KindValidation, "", message, http.StatusBadRequest, nil)
}

// DomainState reports a request that is well formed but meaningless in the
// current state, such as asking for payments of a table with no open session.
func DomainState(code string, message string) *Error {
	return newError(KindDomainState, code, message, http.StatusNotFound, nil)
}

func Conflict(message string) *Error {
	return newError(KindConflict, "", message, http.StatusConflict, nil)
}

func Unauthorized(message string) *Error {
	return newError(KindUnauthorized, "", message, http.StatusUnauthorized, nil)
}

func Forbidden(message string) *Error {
	return newError(KindForbidden, "", message, http.StatusForbidden, nil)
}

// Unavailable marks a feature whose backing infrastructure is not configured.
func Unavailable(code string, message string) *Error {
	return newError(KindUnavailable, code, message, http.StatusServiceUnavailable, nil)
}

func Unexpected(err error) *Error {
	return newError(KindUnexpected, "", "Internal server error", http.StatusInternalServerError, err)
}

// As classifies err; anything that is not an *Error is reported as unexpected.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Unexpected(err)
}

func IsKind(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}
