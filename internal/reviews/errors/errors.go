package errors

import "errors"

var (
	ErrNotFound = errors.New("review not found")

	ErrInvalidID = errors.New("invalid review ID format")

	ErrAlreadyReviewed = errors.New("booking already has a review")

	ErrBookingNotCompleted = errors.New("only completed bookings can be reviewed")
)
