package repository

import (
	"salon-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Staff        StaffRepository
	Service      ServiceRepository
	Availability AvailabilityRepository
	Booking      BookingRepository
	User         UserRepository
	Session      SessionRepository

	// Tx scopes multi-row operations to one transaction; row locks taken
	// inside it are held until commit.
	Tx database.TxManager
}

func NewRepository(db *database.DB, log *zap.Logger) *Repository {
	return &Repository{
		Staff:        NewStaffRepository(db, log),
		Service:      NewServiceRepository(db, log),
		Availability: NewAvailabilityRepository(db, log),
		Booking:      NewBookingRepository(db, log),
		User:         NewUserRepository(db, log),
		Session:      NewSessionRepository(db, log),
		Tx:           db,
	}
}
