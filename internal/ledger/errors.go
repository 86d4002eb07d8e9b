package ledger

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoHeader is returned for an input with no header row at all.
var ErrNoHeader = errors.New("csv has no header row")

// ErrEmptyLedger is returned when no rows with a valid date remain.
var ErrEmptyLedger = errors.New("ledger has no rows with a valid date")

// MissingColumnsError reports required columns absent from the header.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return "missing required columns: " + strings.Join(e.Missing, ", ")
}

// InvalidNumberError reports a balance cell that is not a number.
type InvalidNumberError struct {
	Line   int
	Column string
	Value  string
}

func (e *InvalidNumberError) Error() string {
	return fmt.Sprintf("line %d: %s %q is not a number", e.Line, e.Column, e.Value)
}
