package request

type ReserveSlotRequest struct {
	CustomerName   string `json:"customer_name" validate:"required,max=120"`
	CustomerEmail  string `json:"customer_email" validate:"required,email"`
	CustomerPhone  string `json:"customer_phone" validate:"max=30"`
	Notes          string `json:"notes" validate:"max=1000"`
	ServiceID      string `json:"service_id" validate:"required,uuid4"`
	StaffID        string `json:"staff_id" validate:"required,uuid4"`
	AvailabilityID string `json:"availability_id" validate:"required,uuid4"`
}

// SubmitPaymentProofRequest carries the multipart form fields; the proof
// file itself travels alongside as a ProofUpload.
type SubmitPaymentProofRequest struct {
	CustomerEmail    string `json:"customer_email" validate:"required,email"`
	GuestToken       string `json:"guest_token" validate:"required,uuid4"`
	PaymentMethod    string `json:"payment_method" validate:"required,oneof=gcash bank_transfer"`
	PaymentReference string `json:"payment_reference" validate:"required,max=120"`
	PaymentNotes     string `json:"payment_notes" validate:"max=1000"`
}

// ProofUpload is the uploaded payment-proof artifact as received.
type ProofUpload struct {
	Filename string
	Data     []byte
}

type VerifyPaymentRequest struct {
	Approved  *bool  `json:"approved" validate:"required"`
	AdminNote string `json:"admin_note" validate:"max=1000"`
}

// CancelBookingRequest: email and token are required for guests and
// ignored for privileged callers.
type CancelBookingRequest struct {
	CustomerEmail string `json:"customer_email" validate:"omitempty,email"`
	GuestToken    string `json:"guest_token" validate:"omitempty,uuid4"`
	Reason        string `json:"reason" validate:"max=1000"`
}

type TrackStatusRequest struct {
	CustomerEmail string `json:"customer_email" validate:"required,email"`
	GuestToken    string `json:"guest_token" validate:"required,uuid4"`
}
