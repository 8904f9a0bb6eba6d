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

type StaffService interface {
	Create(ctx context.Context, req *request.CreateStaffRequest) (*response.StaffResponse, error)
	Get(ctx context.Context, staffID string) (*response.StaffResponse, error)
	List(ctx context.Context, includeInactive bool) ([]response.StaffResponse, error)
	Update(ctx context.Context, staffID string, req *request.UpdateStaffRequest) (*response.StaffResponse, error)
}

type staffService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewStaffService(repo *repository.Repository, log *zap.Logger) StaffService {
	return &staffService{
		repo: repo,
		log:  log.With(zap.String("service", "staff")),
	}
}

func (s *staffService) Create(ctx context.Context, req *request.CreateStaffRequest) (*response.StaffResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create staff validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, utils.FormatValidationErrors(errs))
	}

	existing, err := s.repo.Staff.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: staff email already registered", ErrValidationFailed)
	}

	now := time.Now()
	staff := &entity.Staff{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		IsActive: true,
	}

	if err := s.repo.Staff.Create(ctx, staff); err != nil {
		return nil, err
	}

	s.log.Info("Staff created",
		zap.String("staff_id", staff.ID.String()),
		zap.String("email", staff.Email),
	)

	resp := response.StaffToResponse(staff)
	return &resp, nil
}

func (s *staffService) Get(ctx context.Context, staffID string) (*response.StaffResponse, error) {
	id, err := uuid.Parse(staffID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid staff id", ErrValidationFailed)
	}

	staff, err := s.repo.Staff.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, fmt.Errorf("%w: staff %s", ErrNotFound, staffID)
	}

	resp := response.StaffToResponse(staff)
	return &resp, nil
}

func (s *staffService) List(ctx context.Context, includeInactive bool) ([]response.StaffResponse, error) {
	members, err := s.repo.Staff.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}

	responses := make([]response.StaffResponse, len(members))
	for i, m := range members {
		responses[i] = response.StaffToResponse(m)
	}

	return responses, nil
}

func (s *staffService) Update(ctx context.Context, staffID string, req *request.UpdateStaffRequest) (*response.StaffResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update staff validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(staffID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid staff id", ErrValidationFailed)
	}

	staff, err := s.repo.Staff.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, fmt.Errorf("%w: staff %s", ErrNotFound, staffID)
	}

	if req.Email != staff.Email {
		other, err := s.repo.Staff.FindByEmail(ctx, req.Email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != staff.ID {
			return nil, fmt.Errorf("%w: staff email already registered", ErrValidationFailed)
		}
	}

	// Deactivation only blocks new reservations; bookings already taken
	// against this staff member continue through their workflow.
	staff.FullName = req.FullName
	staff.Email = req.Email
	staff.Phone = req.Phone
	staff.IsActive = *req.IsActive
	staff.UpdatedAt = time.Now()

	if err := s.repo.Staff.Update(ctx, staff); err != nil {
		return nil, err
	}

	s.log.Info("Staff updated",
		zap.String("staff_id", staffID),
		zap.Bool("is_active", staff.IsActive),
	)

	resp := response.StaffToResponse(staff)
	return &resp, nil
}
