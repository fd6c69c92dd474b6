package change

import "errors"

var (
	// ErrNegativeAmount is returned when the requested amount is below zero.
	ErrNegativeAmount = errors.New("amount must be a non-negative integer")
	// ErrInvalidDenominations is returned when denominations are missing or contain non-positive values.
	ErrInvalidDenominations = errors.New("denominations must contain at least one positive integer")
	// ErrAmountTooLarge is returned when the amount exceeds the solver's configured ceiling.
	ErrAmountTooLarge = errors.New("amount exceeds the configured maximum")
)
