package graph

import "errors"

// Common node construction errors. All are per-row conditions: the
// caller logs them and continues with the next row.
var (
	// ErrMalformedRow is returned when a row's cell count does not
	// match the header column table.
	ErrMalformedRow = errors.New("malformed row")

	// ErrEmptyIdentifier is returned when the identifier column is
	// empty or missing.
	ErrEmptyIdentifier = errors.New("empty identifier")
)
