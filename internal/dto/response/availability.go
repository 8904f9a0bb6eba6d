package response

import (
	"time"

	"salon-booking/internal/data/entity"
)

type AvailabilityResponse struct {
	ID        string    `json:"id"`
	StaffID   string    `json:"staff_id"`
	ServiceID string    `json:"service_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	IsBooked  bool      `json:"is_booked"`
	CreatedAt time.Time `json:"created_at"`
}

func AvailabilityToResponse(a *entity.Availability) AvailabilityResponse {
	return AvailabilityResponse{
		ID:        a.ID.String(),
		StaffID:   a.StaffID.String(),
		ServiceID: a.ServiceID.String(),
		StartTime: a.StartTime,
		EndTime:   a.EndTime,
		IsBooked:  a.IsBooked,
		CreatedAt: a.CreatedAt,
	}
}
