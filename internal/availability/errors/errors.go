package errors

import "errors"

var (
	ErrNotFound = errors.New("availability not found")

	ErrInvalidID = errors.New("invalid availability ID format")

	ErrDuplicate = errors.New("availability already exists for professor and date")

	// ErrSlotUnavailable is returned when a claim matches no free slot.
	ErrSlotUnavailable = errors.New("slot unavailable")

	// ErrSlotNotBooked is returned when a release matches no booked slot.
	ErrSlotNotBooked = errors.New("slot not booked")
)
