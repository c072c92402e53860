package service

import "errors"

// Sentinel errors returned by the service.
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNoBracket      = errors.New("no bracket source configured")
)
