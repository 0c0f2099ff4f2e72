package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies an error for HTTP status mapping
type Kind int

const (
	KindValidation   Kind = iota // 400 - bad/missing input, user-correctable
	KindNotFound                 // 404 - referenced entity absent
	KindConflict                 // 409 - uniqueness violation
	KindUnauthorized             // 401 - missing/invalid credential
	KindInternal                 // 500 - store/IO failure
)

// Error is the typed outcome every service operation returns on failure.
// Handlers map Kind to a fixed status code; Message is always user-visible.
type Error struct {
	Kind    Kind
	Message string
	Err     error // optional underlying cause, surfaced for diagnostics
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(format string, args ...interface{}) *Error {
	return &Error{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// ValidationError aggregates every violated rule in one report so the caller
// can show a complete correction list in a single round trip.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// Validation builds an aggregated validation error from one or more violations
func Validation(violations ...string) *ValidationError {
	return &ValidationError{Violations: violations}
}

// StatusCode maps an error to its HTTP status per the taxonomy.
// Unrecognized errors are treated as internal failures.
func StatusCode(err error) int {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest
	}
	var ae *Error
	if errors.As(err, &ae) {
		switch ae.Kind {
		case KindValidation:
			return http.StatusBadRequest
		case KindNotFound:
			return http.StatusNotFound
		case KindConflict:
			return http.StatusConflict
		case KindUnauthorized:
			return http.StatusUnauthorized
		}
	}
	return http.StatusInternalServerError
}

// IsNotFound reports whether err carries the not-found kind
func IsNotFound(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == KindNotFound
}
