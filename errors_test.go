package gups

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestStructuredErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType ErrorType
		wantOp   string
		wantMsg  string
		checkFn  func(error) bool
	}{
		{
			name:     "Memory Error",
			err:      ErrOutOfMemory,
			wantType: ErrTypeMemory,
			wantOp:   "NewTable",
			wantMsg:  "out of memory",
			checkFn:  IsMemoryError,
		},
		{
			name:     "Table Too Large",
			err:      ErrTableTooLarge,
			wantType: ErrTypeInvalidArg,
			wantOp:   "NewTable",
			wantMsg:  "table size exponent too large",
			checkFn:  IsInvalidArgError,
		},
		{
			name:     "Uneven Updates",
			err:      ErrUnevenUpdates,
			wantType: ErrTypeInvalidArg,
			wantOp:   "NewEngine",
			wantMsg:  "update count must be a non-zero multiple of the lane count",
			checkFn:  IsInvalidArgError,
		},
		{
			name:     "Execution Error",
			err:      NewExecutionError("Run", "worker failed", nil),
			wantType: ErrTypeExecution,
			wantOp:   "Run",
			wantMsg:  "worker failed",
			checkFn:  IsExecutionError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e *Error
			if !errors.As(tt.err, &e) {
				t.Fatalf("Expected *Error, got %T", tt.err)
			}
			if e.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", e.Type, tt.wantType)
			}
			if e.Op != tt.wantOp {
				t.Errorf("Op = %v, want %v", e.Op, tt.wantOp)
			}
			if e.Message != tt.wantMsg {
				t.Errorf("Message = %v, want %v", e.Message, tt.wantMsg)
			}
			if !tt.checkFn(tt.err) {
				t.Errorf("Error check function returned false")
			}
			if !strings.Contains(tt.err.Error(), tt.wantType.String()) {
				t.Errorf("Error() = %q does not name the type", tt.err.Error())
			}
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	cause := errors.New("mmap: cannot allocate memory")
	err := NewMemoryError("NewTable", "mmap failed", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is did not find the cause")
	}
	if !strings.Contains(err.Error(), "caused by: mmap: cannot allocate memory") {
		t.Errorf("Error() = %q", err.Error())
	}

	wrapped := fmt.Errorf("run: %w", err)
	if !IsMemoryError(wrapped) {
		t.Error("IsMemoryError did not see through fmt.Errorf wrapping")
	}
	if IsInvalidArgError(wrapped) {
		t.Error("memory error reported as invalid argument")
	}
}

func TestErrorIs(t *testing.T) {
	oom := NewMemoryError("NewTable", "out of memory", errors.New("table needs 8 bytes, 4 available"))
	if !errors.Is(oom, ErrOutOfMemory) {
		t.Error("out of memory error with a cause does not match ErrOutOfMemory")
	}
	if errors.Is(oom, ErrReleased) {
		t.Error("out of memory error matches ErrReleased")
	}
	if IsMemoryError(errors.New("plain")) {
		t.Error("plain error reported as memory error")
	}
}

func TestErrorTypeString(t *testing.T) {
	tests := map[ErrorType]string{
		ErrTypeMemory:     "Memory",
		ErrTypeInvalidArg: "InvalidArgument",
		ErrTypeExecution:  "Execution",
		ErrorType(99):     "Unknown",
	}
	for typ, want := range tests {
		if got := typ.String(); got != want {
			t.Errorf("ErrorType(%d).String() = %q, want %q", int(typ), got, want)
		}
	}
}
