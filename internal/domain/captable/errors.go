package captable

import "errors"

// Sentinel kinds for cap accounting errors.
var (
	ErrInvalidTerm  = errors.New("invalid contract term")
	ErrInvalidValue = errors.New("invalid contract value")
)
