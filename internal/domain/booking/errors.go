package booking

import "errors"

var (
	ErrBookingNotFound         = errors.New("booking not found")
	ErrSlotTaken               = errors.New("slot already has an active booking")
	ErrSlotNotOpen             = errors.New("provider has not opened this slot")
	ErrInvalidStatusTransition = errors.New("invalid booking status transition")
	ErrUnknownStatus           = errors.New("unknown booking status")
	ErrMissingField            = errors.New("provider, patient, date and time label are all required")
)
