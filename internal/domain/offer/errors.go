package offer

import "errors"

// Sentinel kinds for offer errors.
var (
	ErrInvalidOffer = errors.New("invalid contract offer")
)
