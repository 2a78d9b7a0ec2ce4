package importer

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedInput means the sheet does not have the expected shape.
	ErrMalformedInput = errors.New("malformed input")
	// ErrStorageFailure means a write, lock or commit failed and the
	// import was rolled back.
	ErrStorageFailure = errors.New("storage failure")
)

// Error describes a failed import. Kind is ErrMalformedInput or
// ErrStorageFailure; errors.Is matches either the kind or the cause.
type Error struct {
	Kind   error
	Row    int // 1-based sheet row, 0 when not tied to a row
	Column int // 1-based sheet column, 0 when not tied to a column
	Reason string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Row > 0 {
		fmt.Fprintf(&b, " at row %d", e.Row)
		if e.Column > 0 {
			fmt.Fprintf(&b, ", column %d", e.Column)
		}
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func malformed(row, column int, format string, args ...any) *Error {
	return &Error{
		Kind:   ErrMalformedInput,
		Row:    row,
		Column: column,
		Reason: fmt.Sprintf(format, args...),
	}
}

func storageFailure(reason string, err error) *Error {
	return &Error{
		Kind:   ErrStorageFailure,
		Reason: reason,
		Err:    err,
	}
}
