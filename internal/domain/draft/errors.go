package draft

import "errors"

// Sentinel kinds for draft errors.
var (
	ErrInvalidConfig    = errors.New("invalid draft configuration")
	ErrSessionPaused    = errors.New("draft session is paused")
	ErrSessionCompleted = errors.New("draft session is completed")
	ErrNotYourPick      = errors.New("not your pick")
	ErrProspectNotFound = errors.New("prospect not found")
	ErrProspectDrafted  = errors.New("prospect already drafted")
	ErrPickNotFound     = errors.New("pick not found")
	ErrInvalidTrade     = errors.New("invalid trade")
)
