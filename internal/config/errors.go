package config

import "errors"

// Errors returned by configuration operations.
var (
	// ErrInvalidConfig indicates a value that fails validation or a key
	// that no section defines.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrFileNotFound indicates an explicitly requested file doesn't exist.
	ErrFileNotFound = errors.New("config file not found")
)
