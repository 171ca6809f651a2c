// Package gups structured error types for better error handling
package gups

import (
	"errors"
	"fmt"
)

// ErrorType represents categories of errors
type ErrorType int

const (
	// Memory errors
	ErrTypeMemory ErrorType = iota
	// Invalid argument errors
	ErrTypeInvalidArg
	// Execution errors
	ErrTypeExecution
)

// Error represents a structured error with context
type Error struct {
	Type    ErrorType
	Op      string // Operation that failed
	Message string // Human-readable message
	Err     error  // Underlying error if any
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("GUPS %s error in %s: %s (caused by: %v)",
			e.Type.String(), e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("GUPS %s error in %s: %s",
		e.Type.String(), e.Op, e.Message)
}

// Unwrap allows error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same type, operation and
// message, so the predefined errors below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Type == e.Type && t.Op == e.Op && t.Message == e.Message
}

// String returns the error type as a string
func (t ErrorType) String() string {
	switch t {
	case ErrTypeMemory:
		return "Memory"
	case ErrTypeInvalidArg:
		return "InvalidArgument"
	case ErrTypeExecution:
		return "Execution"
	default:
		return "Unknown"
	}
}

// NewMemoryError creates a memory-related error
func NewMemoryError(op string, message string, err error) error {
	return &Error{
		Type:    ErrTypeMemory,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// NewInvalidArgError creates an invalid argument error
func NewInvalidArgError(op string, message string) error {
	return &Error{
		Type:    ErrTypeInvalidArg,
		Op:      op,
		Message: message,
	}
}

// NewExecutionError creates an execution error
func NewExecutionError(op string, message string, err error) error {
	return &Error{
		Type:    ErrTypeExecution,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

var (
	// ErrOutOfMemory indicates the table does not fit in available memory
	ErrOutOfMemory = NewMemoryError("NewTable", "out of memory", nil)

	// ErrTableTooLarge indicates a table size exponent beyond MaxLog2Length
	ErrTableTooLarge = NewInvalidArgError("NewTable", "table size exponent too large")

	// ErrUnevenUpdates indicates an update count not divisible by the lane count
	ErrUnevenUpdates = NewInvalidArgError("NewEngine", "update count must be a non-zero multiple of the lane count")

	// ErrReleased indicates use of a table after Release
	ErrReleased = NewMemoryError("Table", "table already released", nil)
)

// IsMemoryError checks if an error is a memory error
func IsMemoryError(err error) bool {
	return hasType(err, ErrTypeMemory)
}

// IsInvalidArgError checks if an error is an invalid argument error
func IsInvalidArgError(err error) bool {
	return hasType(err, ErrTypeInvalidArg)
}

// IsExecutionError checks if an error is an execution error
func IsExecutionError(err error) bool {
	return hasType(err, ErrTypeExecution)
}

func hasType(err error, typ ErrorType) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == typ
	}
	return false
}
