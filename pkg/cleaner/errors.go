package cleaner

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrTableMustBeSet = errors.New("table must be set")
	ErrEmptySelection = errors.New("no column selected")
	ErrUnknownColumn  = errors.New("unknown column")
)

// SelectionError reports a column selection that duplicate removal can not use. Columns
// lists the offending names, if any.
type SelectionError struct {
	Columns []string
	Err     error
}

func (e *SelectionError) Error() string {
	if len(e.Columns) == 0 {
		return "selection: " + e.Err.Error()
	}

	quoted := make([]string, len(e.Columns))
	for i, c := range e.Columns {
		quoted[i] = strconv.Quote(c)
	}

	return "selection: " + e.Err.Error() + ": " + strings.Join(quoted, ", ")
}

func (e *SelectionError) Unwrap() error {
	return e.Err
}
