package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrSessionNotFound   = errors.New("draft session not found")
	ErrInvalidRecord     = errors.New("invalid record")
	ErrUnsupportedDriver = errors.New("unsupported store driver")
)
