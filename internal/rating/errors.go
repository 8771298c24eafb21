package rating

import "errors"

var (
	// ErrInvalidOutcome is returned when an outcome tag is not one of
	// A_WIN, B_WIN or DRAW.
	ErrInvalidOutcome = errors.New("invalid outcome")

	// ErrUnknownPlayer is returned when a rating record does not exist.
	// Callers must provision a default record first; the model never
	// defaults a missing player silently.
	ErrUnknownPlayer = errors.New("unknown player")

	// ErrAlreadyExists is returned when provisioning a player twice.
	ErrAlreadyExists = errors.New("player already exists")
)
