package appointments

import "errors"

var (
	// ErrSlotUnavailable means the requested slot is no longer bookable,
	// either because it never was or because another booking won the race.
	// Callers should re-fetch fresh slots and retry.
	ErrSlotUnavailable = errors.New("appointments: slot unavailable")

	// ErrDoctorNotFound means the doctor id does not exist in the directory.
	ErrDoctorNotFound = errors.New("appointments: doctor not found")

	// ErrNotFound means no matching appointment exists for the caller.
	// Covers both a missing id and an appointment owned by someone else, so
	// cancellation does not leak other patients' appointment ids.
	ErrNotFound = errors.New("appointments: appointment not found")

	// ErrPastDate means the requested date is before today.
	ErrPastDate = errors.New("appointments: date is in the past")

	// ErrBeyondHorizon means the requested date exceeds the booking horizon.
	ErrBeyondHorizon = errors.New("appointments: date beyond booking horizon")

	// ErrInvalidDate means the date failed to parse as YYYY-MM-DD.
	ErrInvalidDate = errors.New("appointments: invalid date")
)
