package response

import (
	"time"

	"salon-booking/internal/data/entity"
)

// BookingCreatedResponse is returned exactly once, at reservation time.
// GuestToken never appears in any other payload.
type BookingCreatedResponse struct {
	PublicID         string     `json:"public_id"`
	GuestToken       string     `json:"guest_token"`
	Status           string     `json:"status"`
	PaymentExpiresAt *time.Time `json:"payment_expires_at"`
	PaymentMethods   []string   `json:"payment_methods"`
}

type PaymentProofSubmittedResponse struct {
	PublicID           string     `json:"public_id"`
	Status             string     `json:"status"`
	PaymentSubmittedAt *time.Time `json:"payment_submitted_at"`
	Message            string     `json:"message"`
}

// BookingResponse is the privileged view with the full workflow record.
type BookingResponse struct {
	PublicID               string     `json:"public_id"`
	CustomerName           string     `json:"customer_name"`
	CustomerEmail          string     `json:"customer_email"`
	CustomerPhone          string     `json:"customer_phone"`
	Notes                  string     `json:"notes"`
	ServiceID              string     `json:"service_id"`
	StaffID                string     `json:"staff_id"`
	AvailabilityID         string     `json:"availability_id"`
	Status                 string     `json:"status"`
	PaymentExpiresAt       *time.Time `json:"payment_expires_at"`
	PaymentSubmittedAt     *time.Time `json:"payment_submitted_at"`
	PaymentMethod          string     `json:"payment_method,omitempty"`
	PaymentReference       string     `json:"payment_reference,omitempty"`
	PaymentProofRef        string     `json:"payment_proof_ref,omitempty"`
	PaymentNotes           string     `json:"payment_notes,omitempty"`
	PaymentVerifiedAt      *time.Time `json:"payment_verified_at"`
	PaymentVerifiedBy      string     `json:"payment_verified_by,omitempty"`
	PaymentRejectionReason string     `json:"payment_rejection_reason,omitempty"`
	CancelReason           string     `json:"cancel_reason,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

// BookingStatusResponse is the guest-facing projection. It never exposes
// internal ids or attestation details beyond what the customer supplied.
type BookingStatusResponse struct {
	PublicID           string     `json:"public_id"`
	Status             string     `json:"status"`
	ServiceName        string     `json:"service_name"`
	StaffName          string     `json:"staff_name"`
	StartTime          *time.Time `json:"start_time"`
	EndTime            *time.Time `json:"end_time"`
	PaymentExpiresAt   *time.Time `json:"payment_expires_at"`
	PaymentSubmittedAt *time.Time `json:"payment_submitted_at"`
	PaymentVerifiedAt  *time.Time `json:"payment_verified_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type SweepResponse struct {
	ExpiredCount int `json:"expired_count"`
}

func BookingToResponse(b *entity.Booking) *BookingResponse {
	resp := &BookingResponse{
		PublicID:               b.PublicID.String(),
		CustomerName:           b.CustomerName,
		CustomerEmail:          b.CustomerEmail,
		CustomerPhone:          b.CustomerPhone,
		Notes:                  b.Notes,
		ServiceID:              b.ServiceID.String(),
		StaffID:                b.StaffID.String(),
		AvailabilityID:         b.AvailabilityID.String(),
		Status:                 string(b.Status),
		PaymentExpiresAt:       b.PaymentExpiresAt,
		PaymentSubmittedAt:     b.PaymentSubmittedAt,
		PaymentMethod:          string(b.PaymentMethod),
		PaymentReference:       b.PaymentReference,
		PaymentProofRef:        b.PaymentProofRef,
		PaymentNotes:           b.PaymentNotes,
		PaymentVerifiedAt:      b.PaymentVerifiedAt,
		PaymentRejectionReason: b.PaymentRejectionReason,
		CancelReason:           b.CancelReason,
		CreatedAt:              b.CreatedAt,
		UpdatedAt:              b.UpdatedAt,
	}
	if b.PaymentVerifiedBy != nil {
		resp.PaymentVerifiedBy = b.PaymentVerifiedBy.String()
	}
	return resp
}
