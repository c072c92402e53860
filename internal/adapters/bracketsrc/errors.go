package bracketsrc

import "errors"

// Sentinel errors for bracket sources.
var (
	ErrParse    = errors.New("bracketsrc: malformed bracket source")
	ErrUpstream = errors.New("bracketsrc: upstream request failed")
)
