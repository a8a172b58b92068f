package source

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownFormat = errors.New("source: unknown format")
	ErrMissingSheet  = errors.New("source: sheet not found")
	ErrMissingColumn = errors.New("source: required column missing")
	ErrEmptyCell     = errors.New("source: empty cell")
	ErrBadNumber     = errors.New("source: not a number")
	ErrNoNodes       = errors.New("source: no nodes loaded")
	ErrNoVariables   = errors.New("source: no variables")
)

// RowError describes one input row that was skipped. Row is 1-based.
type RowError struct {
	Sheet string
	Row   int
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("source: %s row %d: %v", e.Sheet, e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
