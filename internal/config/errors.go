package config

import "errors"

// Validation errors returned by [Config.Validate].
var (
	// ErrInvalidCommand indicates a missing or blank session command.
	ErrInvalidCommand = errors.New("invalid session command")
	// ErrInvalidEnvironment indicates a session environment entry that is
	// not of the form KEY=value.
	ErrInvalidEnvironment = errors.New("invalid session environment")
)
