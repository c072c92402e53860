package feed

import "errors"

// Sentinel errors for the results feed.
var (
	ErrParse    = errors.New("feed: malformed row")
	ErrUpstream = errors.New("feed: upstream request failed")
	ErrNoURL    = errors.New("feed: url not configured")
)
