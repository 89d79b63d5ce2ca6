package models

import "errors"

// Custom errors
var (
	ErrInvalidOdds     = errors.New("invalid american odds")
	ErrInvalidBankroll = errors.New("bankroll must not be negative")
	ErrInvalidSizing   = errors.New("kelly sizing must lie within (0, 1]")
)
