package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrUnknownService = errors.New("service not found in catalog")

	ErrProviderMismatch = errors.New("selected services belong to different providers")

	ErrPaymentNotConfirmed = errors.New("payment has not been confirmed")

	ErrNotReschedulable = errors.New("booking is inside the reschedule notice window")

	ErrAlreadyRescheduled = errors.New("booking has already been rescheduled once")

	ErrCrossDayReschedule = errors.New("reschedule must stay on the original calendar day")

	ErrInvalidTransition = errors.New("invalid booking status transition")
)
