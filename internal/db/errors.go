package db

import "errors"

// Domain-level database error sentinels.
var (
	// Trend keyword errors
	ErrInvalidRegion    = errors.New("invalid region")
	ErrInvalidKeyword   = errors.New("invalid trend keyword")
	ErrInvalidFrequency = errors.New("frequency must be at least 1")
)
