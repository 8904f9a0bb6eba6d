package usecase

import (
	"context"
	"fmt"
	"time"

	"salon-booking/internal/data/entity"
	"salon-booking/internal/data/repository"
	"salon-booking/internal/dto/request"
	"salon-booking/internal/dto/response"
	"salon-booking/pkg/database"
	"salon-booking/pkg/notifier"
	"salon-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReservationService claims an availability slot and creates the booking
// as one atomic unit: both writes commit or neither does.
type ReservationService interface {
	Reserve(ctx context.Context, req *request.ReserveSlotRequest) (*response.BookingCreatedResponse, error)
}

type reservationService struct {
	repo   *repository.Repository
	config *utils.Config
	notify notifier.Notifier
	log    *zap.Logger
}

func NewReservationService(repo *repository.Repository, config *utils.Config, notify notifier.Notifier, log *zap.Logger) ReservationService {
	return &reservationService{
		repo:   repo,
		config: config,
		notify: notify,
		log:    log.With(zap.String("service", "reservation")),
	}
}

func (s *reservationService) Reserve(ctx context.Context, req *request.ReserveSlotRequest) (*response.BookingCreatedResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Reserve validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, utils.FormatValidationErrors(errs))
	}

	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid service id", ErrValidationFailed)
	}
	staffID, err := uuid.Parse(req.StaffID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid staff id", ErrValidationFailed)
	}
	availabilityID, err := uuid.Parse(req.AvailabilityID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid availability id", ErrValidationFailed)
	}

	var booking *entity.Booking

	err = s.repo.Tx.WithTx(ctx, func(q database.Querier) error {
		// Exclusive lock on the slot serializes the check-then-set: of two
		// racing reservations exactly one gets here first, the other sees
		// is_booked already true.
		slot, err := s.repo.Availability.LockByIDTx(ctx, q, availabilityID)
		if err != nil {
			return err
		}
		if slot == nil || slot.IsBooked {
			return ErrSlotUnavailable
		}

		now := time.Now()
		if !slot.StartTime.After(now) {
			return ErrSlotUnavailable
		}

		service, err := s.repo.Service.FindByIDTx(ctx, q, slot.ServiceID)
		if err != nil {
			return err
		}
		if service == nil || !service.IsActive {
			return ErrInactiveResource
		}

		staff, err := s.repo.Staff.FindByIDTx(ctx, q, slot.StaffID)
		if err != nil {
			return err
		}
		if staff == nil || !staff.IsActive {
			return ErrInactiveResource
		}

		if serviceID != slot.ServiceID || staffID != slot.StaffID {
			return ErrMismatch
		}

		expiresAt := now.Add(time.Duration(s.config.Booking.PaymentTimeoutMinutes) * time.Minute)
		booking = &entity.Booking{
			Base: entity.Base{
				ID:        utils.GenerateUUID(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			PublicID:         utils.GeneratePublicID(),
			GuestToken:       utils.GenerateGuestToken(),
			CustomerName:     req.CustomerName,
			CustomerEmail:    req.CustomerEmail,
			CustomerPhone:    req.CustomerPhone,
			Notes:            req.Notes,
			ServiceID:        slot.ServiceID,
			StaffID:          slot.StaffID,
			AvailabilityID:   slot.ID,
			Status:           entity.BookingStatusAwaitingPayment,
			PaymentExpiresAt: &expiresAt,
		}

		if err := s.repo.Booking.CreateTx(ctx, q, booking); err != nil {
			return err
		}

		return s.repo.Availability.MarkBookedTx(ctx, q, slot.ID)
	})

	if err != nil {
		return nil, err
	}

	s.log.Info("Booking reserved",
		zap.String("public_id", booking.PublicID.String()),
		zap.String("availability_id", availabilityID.String()),
		zap.Timep("payment_expires_at", booking.PaymentExpiresAt),
	)

	s.notify.Notify(booking.ID, notifier.EventBookingCreated)

	methods := entity.PaymentMethods()
	methodNames := make([]string, len(methods))
	for i, m := range methods {
		methodNames[i] = string(m)
	}

	return &response.BookingCreatedResponse{
		PublicID:         booking.PublicID.String(),
		GuestToken:       booking.GuestToken.String(),
		Status:           string(booking.Status),
		PaymentExpiresAt: booking.PaymentExpiresAt,
		PaymentMethods:   methodNames,
	}, nil
}
