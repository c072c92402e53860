package bracket

import "errors"

// Sentinel kinds for bracket errors.
var (
	// ErrLookup marks a bracket team missing from the ratings table.
	ErrLookup = errors.New("team not found")
	// ErrMalformedBracket marks links or slots that cannot be simulated.
	ErrMalformedBracket = errors.New("malformed bracket")
)
