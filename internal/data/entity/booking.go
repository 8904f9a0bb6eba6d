package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusAwaitingPayment  BookingStatus = "awaiting_payment"
	BookingStatusPaymentSubmitted BookingStatus = "payment_submitted"
	BookingStatusConfirmed        BookingStatus = "confirmed"
	BookingStatusCompleted        BookingStatus = "completed"
	BookingStatusCancelled        BookingStatus = "cancelled"
)

// IsTerminal reports whether no further transition can leave the status.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

type PaymentMethod string

const (
	PaymentMethodGcash        PaymentMethod = "gcash"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

// PaymentMethods lists the methods a customer may attest payment with,
// in the order they are offered.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentMethodGcash, PaymentMethodBankTransfer}
}

// Booking is the reservation record. PublicID is the customer-facing
// reference; GuestToken paired with CustomerEmail authorizes guest
// self-service actions. Rows are never deleted; cancellation is a
// terminal status, preserving audit history.
type Booking struct {
	Base
	PublicID   uuid.UUID `db:"public_id"`
	GuestToken uuid.UUID `db:"guest_token"`

	CustomerName  string `db:"customer_name"`
	CustomerEmail string `db:"customer_email"`
	CustomerPhone string `db:"customer_phone"`
	Notes         string `db:"notes"`

	ServiceID      uuid.UUID `db:"service_id"`
	StaffID        uuid.UUID `db:"staff_id"`
	AvailabilityID uuid.UUID `db:"availability_id"`

	Status BookingStatus `db:"status"`

	PaymentExpiresAt       *time.Time    `db:"payment_expires_at"`
	PaymentSubmittedAt     *time.Time    `db:"payment_submitted_at"`
	PaymentMethod          PaymentMethod `db:"payment_method"`
	PaymentReference       string        `db:"payment_reference"`
	PaymentProofRef        string        `db:"payment_proof_ref"`
	PaymentNotes           string        `db:"payment_notes"`
	PaymentVerifiedAt      *time.Time    `db:"payment_verified_at"`
	PaymentVerifiedBy      *uuid.UUID    `db:"payment_verified_by"`
	PaymentRejectionReason string        `db:"payment_rejection_reason"`

	CancelReason string `db:"cancel_reason"`
}

// PaymentWindowExpired reports whether the payment deadline has passed
// at the given instant.
func (b *Booking) PaymentWindowExpired(now time.Time) bool {
	return b.PaymentExpiresAt != nil && now.After(*b.PaymentExpiresAt)
}
