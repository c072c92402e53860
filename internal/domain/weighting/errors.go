package weighting

import "errors"

// Sentinel kinds for weighting errors.
var (
	// ErrConfiguration marks ranking options or a season that cannot be weighted.
	ErrConfiguration = errors.New("ranking configuration error")
)
