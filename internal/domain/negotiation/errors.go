package negotiation

import "errors"

// Sentinel kinds for negotiation errors.
var (
	ErrUnknownSurface = errors.New("unknown negotiation surface")
	ErrInvalidPlayer  = errors.New("invalid player")
)
