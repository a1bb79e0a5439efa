package dataset

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotLoaded is returned by Store.Snapshot before a successful Init.
	ErrNotLoaded = errors.New("dataset: not loaded")
	// ErrClosed is returned once the store has been closed.
	ErrClosed = errors.New("dataset: store closed")
)

// MissingColumnError reports required columns absent from a source.
type MissingColumnError struct {
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("dataset: missing required columns: %s", strings.Join(e.Columns, ", "))
}

// RowError describes a source row that was skipped while loading.
type RowError struct {
	Line   int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("row %d: %s: %v", e.Line, e.Column, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
