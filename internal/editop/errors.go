package editop

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrSyntax is matched by every *ParseError.
	ErrSyntax = errors.New("invalid edit operation syntax")
	// ErrInvalidOperation is returned when an operation violates its coordinate invariants.
	ErrInvalidOperation = errors.New("invalid edit operation")
	// ErrEmptyInput is returned when an operation is executed against empty text.
	ErrEmptyInput = errors.New("input text is empty")
	// ErrOutOfRange is returned when a span falls outside the input text.
	ErrOutOfRange = errors.New("span out of range")
	// ErrOverlappingSpans is returned when the two spans of a swap overlap.
	// It matches ErrOutOfRange as well.
	ErrOverlappingSpans = fmt.Errorf("%w: swap spans overlap", ErrOutOfRange)
)

// ParseError describes text that could not be parsed as an edit operation.
type ParseError struct {
	Text   string // offending text: the whole input, or the part that failed
	Offset int    // byte offset of Text in the parsed input, -1 when unknown
	Reason string
	Err    error // underlying validation error, if any
}

func (e *ParseError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("parse %q at offset %d: %s", e.Text, e.Offset, e.Reason)
	}

	return fmt.Sprintf("parse %q: %s", e.Text, e.Reason)
}

// Unwrap exposes ErrSyntax and the underlying validation error to errors.Is.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrSyntax}
	}

	return []error{ErrSyntax, e.Err}
}

// ScriptError reports which operation of a script failed.
type ScriptError struct {
	Index int // 0-based index of the failing operation
	Op    Operation
	Err   error
}

func (e *ScriptError) Error() string {
	if e.Op == nil {
		return fmt.Sprintf("operation %d: %v", e.Index+1, e.Err)
	}

	return fmt.Sprintf("operation %d (%s): %v", e.Index+1, e.Op, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidOperation, fmt.Sprintf(format, args...))
}

func outOfRangef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrOutOfRange, fmt.Sprintf(format, args...))
}
