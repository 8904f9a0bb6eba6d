package request

import "time"

type CreateAvailabilityRequest struct {
	StaffID   string    `json:"staff_id" validate:"required,uuid4"`
	ServiceID string    `json:"service_id" validate:"required,uuid4"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
}

// ListAvailabilityRequest is assembled from query parameters.
type ListAvailabilityRequest struct {
	StaffID   string
	ServiceID string
	Date      string
	IsBooked  string
}
