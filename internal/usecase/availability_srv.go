package usecase

import (
	"context"
	"fmt"
	"time"

	"salon-booking/internal/data/entity"
	"salon-booking/internal/data/repository"
	"salon-booking/internal/dto/request"
	"salon-booking/internal/dto/response"
	"salon-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AvailabilityService interface {
	Create(ctx context.Context, req *request.CreateAvailabilityRequest) (*response.AvailabilityResponse, error)
	Delete(ctx context.Context, slotID string) error

	// List serves both the public browse surface and the staff console.
	// Unprivileged callers are restricted to open, future slots of active
	// staff and services regardless of the requested filter.
	List(ctx context.Context, caller Caller, req *request.ListAvailabilityRequest) ([]response.AvailabilityResponse, error)
}

type availabilityService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewAvailabilityService(repo *repository.Repository, log *zap.Logger) AvailabilityService {
	return &availabilityService{
		repo: repo,
		log:  log.With(zap.String("service", "availability")),
	}
}

func (s *availabilityService) Create(ctx context.Context, req *request.CreateAvailabilityRequest) (*response.AvailabilityResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create availability validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, utils.FormatValidationErrors(errs))
	}

	staffID, err := uuid.Parse(req.StaffID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid staff id", ErrValidationFailed)
	}
	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid service id", ErrValidationFailed)
	}

	staff, err := s.repo.Staff.FindByID(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, fmt.Errorf("%w: staff %s", ErrNotFound, req.StaffID)
	}
	service, err := s.repo.Service.FindByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, fmt.Errorf("%w: service %s", ErrNotFound, req.ServiceID)
	}

	overlap, err := s.repo.Availability.HasOverlap(ctx, staffID, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, fmt.Errorf("%w: staff member already has a slot in this time range", ErrValidationFailed)
	}

	slot := &entity.Availability{
		BaseSimple: entity.BaseSimple{
			ID:        utils.GenerateUUID(),
			CreatedAt: time.Now(),
		},
		StaffID:   staffID,
		ServiceID: serviceID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		IsBooked:  false,
	}

	if err := s.repo.Availability.Create(ctx, slot); err != nil {
		return nil, err
	}

	s.log.Info("Availability created",
		zap.String("availability_id", slot.ID.String()),
		zap.String("staff_id", req.StaffID),
		zap.Time("start_time", req.StartTime),
	)

	resp := response.AvailabilityToResponse(slot)
	return &resp, nil
}

func (s *availabilityService) Delete(ctx context.Context, slotID string) error {
	id, err := uuid.Parse(slotID)
	if err != nil {
		return fmt.Errorf("%w: invalid availability id", ErrValidationFailed)
	}

	slot, err := s.repo.Availability.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if slot == nil {
		return fmt.Errorf("%w: availability %s", ErrNotFound, slotID)
	}

	// Slots referenced by any booking, even a cancelled one, stay as
	// history; deleting them would orphan the booking record.
	referenced, err := s.repo.Booking.ExistsForAvailability(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return fmt.Errorf("%w: slot is referenced by a booking", ErrValidationFailed)
	}

	if err := s.repo.Availability.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("Availability deleted", zap.String("availability_id", slotID))
	return nil
}

func (s *availabilityService) List(ctx context.Context, caller Caller, req *request.ListAvailabilityRequest) ([]response.AvailabilityResponse, error) {
	filter := repository.AvailabilityFilter{}

	if req.StaffID != "" {
		id, err := uuid.Parse(req.StaffID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid staff id", ErrValidationFailed)
		}
		filter.StaffID = id
	}
	if req.ServiceID != "" {
		id, err := uuid.Parse(req.ServiceID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid service id", ErrValidationFailed)
		}
		filter.ServiceID = id
	}
	if req.Date != "" {
		day, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidationFailed)
		}
		filter.Date = &day
	}

	privileged := caller != nil && caller.IsPrivileged()
	if privileged {
		if req.IsBooked != "" {
			booked := req.IsBooked == "true"
			filter.Booked = &booked
		}
	} else {
		open := false
		filter.Booked = &open
		filter.FutureOnly = true
		filter.ActiveOnly = true
	}

	slots, err := s.repo.Availability.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]response.AvailabilityResponse, len(slots))
	for i, slot := range slots {
		responses[i] = response.AvailabilityToResponse(slot)
	}

	return responses, nil
}
