// Package error defines the classified error model for the Ledger Keeper core.
package error

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for the caller.
type Kind string

const (
	// KindValidation marks caller-supplied input that violates a precondition.
	// Validation failures are never retried.
	KindValidation Kind = "validation"

	// KindNotFound marks a referenced identity that does not exist.
	KindNotFound Kind = "not_found"

	// KindSystem marks store or infrastructure faults. System errors carry
	// enough metadata to reconstruct the failing call.
	KindSystem Kind = "system"
)

// Error is the single error type crossing component boundaries. No raw error
// value leaves an operation un-wrapped.
type Error struct {
	Kind     Kind
	Code     string
	Message  string
	Metadata map[string]any
	Err      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithMeta attaches a metadata entry and returns the error for chaining.
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Metadata == nil {
		e.Metadata = make(map[string]any)
	}
	e.Metadata[key] = value
	return e
}

// NewValidation creates a Validation error.
func NewValidation(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

// NewNotFound creates a NotFound error.
func NewNotFound(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

// NewSystem creates a System error wrapping the triggering fault.
func NewSystem(code, message string, err error) *Error {
	return &Error{Kind: KindSystem, Code: code, Message: message, Err: err}
}

// From returns err as a classified *Error. Unclassified errors become System
// errors so that no raw error crosses a component boundary.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewSystem(ErrCodeUnexpected, "unexpected error", err)
}

// FromPanic converts a recovered panic value into a System error.
func FromPanic(recovered any, metadata map[string]any) *Error {
	err, ok := recovered.(error)
	if !ok {
		err = fmt.Errorf("panic: %v", recovered)
	}
	e := NewSystem(ErrCodeUnexpected, "operation panicked", err)
	for k, v := range metadata {
		e.WithMeta(k, v)
	}
	return e
}

// KindOf reports the classification of err; unclassified errors are System.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindSystem
}

// IsValidation reports whether err is classified as a Validation failure.
func IsValidation(err error) bool { return err != nil && KindOf(err) == KindValidation }

// IsNotFound reports whether err is classified as a NotFound failure.
func IsNotFound(err error) bool { return err != nil && KindOf(err) == KindNotFound }

// IsSystem reports whether err is classified as a System failure.
func IsSystem(err error) bool { return err != nil && KindOf(err) == KindSystem }

// ErrCodeUnexpected is the catch-all code for unclassified faults.
const ErrCodeUnexpected = "LGR-099999"
