package service

import "errors"

// Business errors are terminal for the triggering operation; controllers
// map them to HTTP statuses with errors.Is and nothing retries them.
var (
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNoConsensus        = errors.New("date does not have full consensus")
	ErrPastDate           = errors.New("date is in the past")
	ErrOutOfWindow        = errors.New("date is beyond the availability window")
	ErrEventLocked        = errors.New("event date is locked")
	ErrResultsFinalized   = errors.New("results already finalized")
	ErrResultsNotEntered  = errors.New("results must be entered before finalization")
	ErrNotBetOwner        = errors.New("bet belongs to another user")
)
