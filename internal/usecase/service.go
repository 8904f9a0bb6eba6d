package usecase

import (
	"salon-booking/internal/data/repository"
	"salon-booking/pkg/blobstore"
	"salon-booking/pkg/notifier"
	"salon-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Reservation  ReservationService
	Payment      PaymentWorkflowService
	Sweeper      SweeperService
	Availability AvailabilityService
	Staff        StaffService
	Catalog      CatalogService
	Auth         AuthService
}

func NewService(repo *repository.Repository, config *utils.Config, blobs blobstore.Store, notify notifier.Notifier, log *zap.Logger) *Service {
	return &Service{
		Reservation:  NewReservationService(repo, config, notify, log),
		Payment:      NewPaymentWorkflowService(repo, blobs, notify, log),
		Sweeper:      NewSweeperService(repo, notify, log),
		Availability: NewAvailabilityService(repo, log),
		Staff:        NewStaffService(repo, log),
		Catalog:      NewCatalogService(repo, log),
		Auth:         NewAuthService(repo, config, log),
	}
}
