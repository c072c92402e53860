package rating

import "errors"

// Sentinel kinds for rating errors. Callers match them with errors.Is.
var (
	// ErrDataIntegrity marks team or game tables the matrix cannot be indexed from.
	ErrDataIntegrity = errors.New("data integrity error")
	// ErrSolve marks a linear system with no unique solution.
	ErrSolve = errors.New("rating system could not be solved")
)
