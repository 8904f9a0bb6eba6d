package response

import (
	"time"

	"salon-booking/internal/data/entity"
)

type StaffResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func StaffToResponse(s *entity.Staff) StaffResponse {
	return StaffResponse{
		ID:        s.ID.String(),
		FullName:  s.FullName,
		Email:     s.Email,
		Phone:     s.Phone,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
