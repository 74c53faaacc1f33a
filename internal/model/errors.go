package model

import "errors"

// Common errors used across the application
var (
	// Match errors
	ErrMatchNotFound  = errors.New("match not found")
	ErrDuplicateMatch = errors.New("match already exists")
	ErrInvalidInput   = errors.New("missing or invalid input")
	ErrInvalidState   = errors.New("operation not valid for current match state")
	ErrSelfJoin       = errors.New("cannot join your own match")

	// Move errors
	ErrUnauthorized    = errors.New("player is not part of this match")
	ErrNotYourTurn     = errors.New("not this player's turn")
	ErrInvalidPosition = errors.New("invalid or occupied board position")

	// Settlement errors
	ErrAlreadySettled = errors.New("match already settled")

	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
)
