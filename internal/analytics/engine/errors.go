package engine

import "errors"

var (
	// ErrInvalidRange is returned when a range starts after it ends.
	ErrInvalidRange = errors.New("engine: range start is after range end")
	// ErrEmptyInput is returned when an aggregate needs at least one row.
	ErrEmptyInput = errors.New("engine: aggregation invoked on an empty table")
	// ErrInvalidLimit is returned for non-positive top/bottom sizes.
	ErrInvalidLimit = errors.New("engine: limit must be positive")
)
