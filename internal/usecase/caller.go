package usecase

import "github.com/google/uuid"

// Caller abstracts whoever initiates an operation. Any identity/session
// system can implement it; the engine never inspects roles directly.
type Caller interface {
	// IsPrivileged reports whether the caller may verify payments,
	// complete bookings, and override guest-only restrictions.
	IsPrivileged() bool
	// IsSuperAdmin reports whether the caller holds the admin role.
	IsSuperAdmin() bool
	// ID returns the caller's account id, or uuid.Nil for guests.
	ID() uuid.UUID
}

// GuestCaller is the zero-privilege caller used for unauthenticated
// requests.
type GuestCaller struct{}

func (GuestCaller) IsPrivileged() bool { return false }
func (GuestCaller) IsSuperAdmin() bool { return false }
func (GuestCaller) ID() uuid.UUID      { return uuid.Nil }

// SessionCaller wraps an authenticated back-office account.
type SessionCaller struct {
	UserID uuid.UUID
	Role   string
}

func (c SessionCaller) IsPrivileged() bool {
	return c.Role == "admin" || c.Role == "operator"
}

func (c SessionCaller) IsSuperAdmin() bool {
	return c.Role == "admin"
}

func (c SessionCaller) ID() uuid.UUID { return c.UserID }
