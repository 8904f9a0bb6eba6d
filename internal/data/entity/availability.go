package entity

import (
	"time"

	"github.com/google/uuid"
)

// Availability is a concrete bookable time window offered by one staff
// member for one service. IsBooked flips true when a booking claims the
// slot and back to false when that booking is cancelled or expires.
type Availability struct {
	BaseSimple
	StaffID   uuid.UUID `db:"staff_id"`
	ServiceID uuid.UUID `db:"service_id"`
	StartTime time.Time `db:"start_time"`
	EndTime   time.Time `db:"end_time"`
	IsBooked  bool      `db:"is_booked"`
}
