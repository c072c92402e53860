package config

import "errors"

var (
	// ErrLoadConfig wraps failures reading the config file or environment.
	ErrLoadConfig = errors.New("load config failed")
	// ErrInvalidConfig wraps values that were read but fail validation.
	ErrInvalidConfig = errors.New("invalid config")
)
