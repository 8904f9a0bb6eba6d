package usecase

import (
	"context"
	"fmt"

	"salon-booking/internal/data/repository"
	"salon-booking/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogService exposes the service menu. The catalog is seeded by
// migration and managed out of band, so this surface is read-only.
type CatalogService interface {
	Get(ctx context.Context, serviceID string) (*response.ServiceResponse, error)
	List(ctx context.Context, activeOnly bool) ([]response.ServiceResponse, error)
}

type catalogService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCatalogService(repo *repository.Repository, log *zap.Logger) CatalogService {
	return &catalogService{
		repo: repo,
		log:  log.With(zap.String("service", "catalog")),
	}
}

func (s *catalogService) Get(ctx context.Context, serviceID string) (*response.ServiceResponse, error) {
	id, err := uuid.Parse(serviceID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid service id", ErrValidationFailed)
	}

	service, err := s.repo.Service.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, fmt.Errorf("%w: service %s", ErrNotFound, serviceID)
	}

	resp := response.ServiceToResponse(service)
	return &resp, nil
}

func (s *catalogService) List(ctx context.Context, activeOnly bool) ([]response.ServiceResponse, error) {
	services, err := s.repo.Service.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}

	responses := make([]response.ServiceResponse, len(services))
	for i, svc := range services {
		responses[i] = response.ServiceToResponse(svc)
	}

	return responses, nil
}
