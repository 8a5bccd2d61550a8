package table

import "errors"

var (
	// ErrDuplicateSample indicates a sample identifier appears twice in one
	// input table.
	ErrDuplicateSample = errors.New("table: duplicate sample identifier")
	// ErrColumnNotFound indicates a requested column does not exist.
	ErrColumnNotFound = errors.New("table: column not found")
	// ErrDuplicateColumn indicates a header names the same column twice.
	ErrDuplicateColumn = errors.New("table: duplicate column name")
	// ErrMalformed indicates a row whose width does not match the header.
	ErrMalformed = errors.New("table: malformed row")
)
