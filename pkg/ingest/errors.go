package ingest

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNoColumns     = errors.New("no columns to parse from input")
	ErrTooManyFields = errors.New("too many fields")
)

// Error reports input that could not be parsed into a table. Line is 0 when the failure is
// not tied to a line.
type Error struct {
	Line int
	Err  error
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("ingest: line %d: %v", e.Line, e.Err)
	}

	return fmt.Sprintf("ingest: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
