package booking

import "errors"

var (
	ErrValidation       = errors.New("validation failed")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidTime      = errors.New("invalid time")
	ErrInvalidPartySize = errors.New("invalid party size")
	ErrInvalidEmail     = errors.New("invalid customer email")
	ErrSlotConflict     = errors.New("slot already booked")
	ErrNotFound         = errors.New("reservation not found")
)
