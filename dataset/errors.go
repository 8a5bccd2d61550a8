package dataset

import "errors"

var (
	// ErrNoDistances indicates a distance-based operation on a dataset that
	// was built without a distance matrix.
	ErrNoDistances = errors.New("dataset: no distance matrix")
	// ErrColumnConflict indicates that two sources, or a source and a derived
	// column, claim the same column name.
	ErrColumnConflict = errors.New("dataset: column conflict")
)
