package usecase

import (
	"strings"

	"salon-booking/internal/data/entity"
)

// VerifyGuestIdentity checks a caller-supplied (email, token) pair
// against the booking's stored identity. Email comparison is
// case-insensitive; token match is exact. Pure function, no side
// effects; gates every guest self-service action.
func VerifyGuestIdentity(booking *entity.Booking, email, token string) bool {
	if booking == nil {
		return false
	}
	if !strings.EqualFold(booking.CustomerEmail, email) {
		return false
	}
	return booking.GuestToken.String() == token
}
