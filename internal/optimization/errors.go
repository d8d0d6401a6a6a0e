package optimization

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies an optimization error.
type Kind int

const (
	// KindContract marks invalid constructor or method arguments: wrong
	// dimension, out-of-range coefficient, missing prerequisite call.
	KindContract Kind = iota
	// KindIndex marks a simplex replacement with an index outside [-n, n).
	KindIndex
)

// Error represents an optimization error with context
// that can be wrapped with additional information.
type Error struct {
	// Kind classifies the failure so callers can tell a bad index
	// apart from a bad value.
	Kind Kind
	// Message describes the error that occurred.
	Message string
	// Op is the operation that caused the error.
	Op string
	// Component is the component where the error occurred.
	Component string
	// Err is the underlying error that triggered this one, if any.
	Err error
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var prefix string
	if e.Component != "" && e.Op != "" {
		prefix = fmt.Sprintf("%s: %s", e.Component, e.Op)
	} else if e.Component != "" {
		prefix = e.Component
	} else if e.Op != "" {
		prefix = e.Op
	}

	if e.Err != nil {
		if prefix != "" {
			return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	if prefix != "" {
		return fmt.Sprintf("%s: %s", prefix, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error, if any.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// WithOperation adds operation context to the error.
func (e *Error) WithOperation(op string) *Error {
	e.Op = op
	return e
}

// WithComponent adds component context to the error.
func (e *Error) WithComponent(component string) *Error {
	e.Component = component
	return e
}

// NewError creates a new contract-violation error with the given message.
func NewError(message string) *Error {
	return &Error{
		Kind:    KindContract,
		Message: message,
	}
}

// NewErrorf creates a new contract-violation error with formatted message.
func NewErrorf(format string, args ...interface{}) *Error {
	return &Error{
		Kind:    KindContract,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewIndexErrorf creates a new index-out-of-range error with formatted message.
func NewIndexErrorf(format string, args ...interface{}) *Error {
	return &Error{
		Kind:    KindIndex,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError wraps an existing error with additional context.
// If err is nil, WrapError returns nil.
func WrapError(err error, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Kind:    KindContract,
		Message: message,
		Err:     err,
	}
}

// IsContract reports whether err is a contract-violation error.
func IsContract(err error) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind == KindContract
	}
	return false
}

// IsIndex reports whether err is an index-out-of-range error.
func IsIndex(err error) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind == KindIndex
	}
	return false
}
