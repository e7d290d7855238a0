package types

import "errors"

// Common errors shared across the pipeline packages.
var (
	ErrMissingRootDir = errors.New("root directory is required")
	ErrInvalidContext = errors.New("invalid sync context")
)
