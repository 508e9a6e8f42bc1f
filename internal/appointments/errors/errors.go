package errors

import "errors"

var (
	ErrNotFound = errors.New("appointment not found")

	ErrInvalidID = errors.New("invalid appointment ID format")

	// ErrDuplicateBooking is returned when the partial unique index on booked tuples rejects an insert.
	ErrDuplicateBooking = errors.New("appointment already booked")

	// ErrNotBooked is returned when a conditional transition finds the appointment no longer Booked.
	ErrNotBooked = errors.New("appointment is not booked")
)
