package catalog

import (
	"errors"
	"fmt"
)

// ErrorKind classifies connector and governance failures. Connection errors
// are safe to retry externally; the remaining kinds are not retryable without
// operator intervention.
type ErrorKind string

const (
	ErrorConnection    ErrorKind = "connection"
	ErrorNotFound      ErrorKind = "not_found"
	ErrorParse         ErrorKind = "parse"
	ErrorValidation    ErrorKind = "validation"
	ErrorAuthorization ErrorKind = "authorization"
	ErrorLimitExceeded ErrorKind = "limit_exceeded"
)

// Error is the typed failure surfaced by every connector operation except
// Test, which reports failures as a TestResult instead.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError wraps err with a kind and the failing operation.
func NewError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf builds a typed error from a format string.
func Errorf(kind ErrorKind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf extracts the error kind, or "" when err carries none.
func KindOf(err error) ErrorKind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
