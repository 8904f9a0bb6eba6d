package usecase

import "errors"

// Business error taxonomy. Every state-changing operation fails with one
// of these (or wraps one); handlers map them to HTTP codes with
// errors.Is. All are client-reportable and safe to retry.
var (
	// ErrSlotUnavailable: the slot is missing, already booked, or its
	// start time has passed.
	ErrSlotUnavailable = errors.New("slot is not available for booking")

	// ErrInactiveResource: the slot's service or staff is deactivated.
	ErrInactiveResource = errors.New("service or staff is not active")

	// ErrMismatch: caller-declared service/staff differ from the slot's.
	ErrMismatch = errors.New("service or staff does not match the selected slot")

	// ErrPaymentWindowExpired: the payment deadline passed; the booking
	// has been cancelled and its slot released.
	ErrPaymentWindowExpired = errors.New("payment window has expired and the booking was cancelled")

	// ErrInvalidTransition: the requested transition is not legal from
	// the booking's current status.
	ErrInvalidTransition = errors.New("transition not allowed from current booking status")

	// ErrCannotCancelCompleted: completed bookings are immutable.
	ErrCannotCancelCompleted = errors.New("completed bookings cannot be cancelled")

	// ErrIdentityVerificationFailed: guest email/token pair did not match.
	ErrIdentityVerificationFailed = errors.New("booking identity verification failed")

	// ErrNotFound: the referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrValidationFailed: malformed or business-invalid input.
	ErrValidationFailed = errors.New("validation failed")
)
