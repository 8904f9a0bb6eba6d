package usecase

import (
	"testing"

	"salon-booking/internal/data/entity"

	"github.com/google/uuid"
)

func TestVerifyGuestIdentity(t *testing.T) {
	token := uuid.New()
	booking := &entity.Booking{
		CustomerEmail: "Juan@Example.com",
		GuestToken:    token,
	}

	tests := []struct {
		name  string
		email string
		token string
		want  bool
	}{
		{"exact match", "Juan@Example.com", token.String(), true},
		{"email case folded", "juan@example.COM", token.String(), true},
		{"wrong email", "pedro@example.com", token.String(), false},
		{"wrong token", "Juan@Example.com", uuid.NewString(), false},
		{"empty token", "Juan@Example.com", "", false},
		{"malformed token", "Juan@Example.com", "not-a-uuid", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifyGuestIdentity(booking, tt.email, tt.token); got != tt.want {
				t.Errorf("VerifyGuestIdentity(%q, %q) = %v, want %v", tt.email, tt.token, got, tt.want)
			}
		})
	}
}

func TestVerifyGuestIdentityNilBooking(t *testing.T) {
	if VerifyGuestIdentity(nil, "juan@example.com", uuid.NewString()) {
		t.Error("nil booking must never verify")
	}
}
