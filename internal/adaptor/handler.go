package adaptor

import (
	"errors"
	"net/http"

	"salon-booking/internal/usecase"
	"salon-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth         *AuthHandler
	Booking      *BookingHandler
	Availability *AvailabilityHandler
	Staff        *StaffHandler
	Catalog      *CatalogHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(service.Auth, log),
		Booking:      NewBookingHandler(service.Reservation, service.Payment, service.Sweeper, log),
		Availability: NewAvailabilityHandler(service.Availability, log),
		Staff:        NewStaffHandler(service.Staff, log),
		Catalog:      NewCatalogHandler(service.Catalog, log),
	}
}

// handleServiceError maps the business error taxonomy onto HTTP codes.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed: not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrIdentityVerificationFailed):
		log.Warn(operation+" failed: identity verification", zap.Error(err))
		utils.ResponseForbidden(w, err.Error())

	case errors.Is(err, usecase.ErrSlotUnavailable):
		log.Warn(operation+" failed: slot unavailable", zap.Error(err))
		utils.ResponseConflict(w, err.Error())

	case errors.Is(err, usecase.ErrValidationFailed),
		errors.Is(err, usecase.ErrInactiveResource),
		errors.Is(err, usecase.ErrMismatch),
		errors.Is(err, usecase.ErrPaymentWindowExpired),
		errors.Is(err, usecase.ErrInvalidTransition),
		errors.Is(err, usecase.ErrCannotCancelCompleted):
		log.Warn(operation+" failed: rejected", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	default:
		log.Error(operation+" failed", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// callerFromContext rebuilds the caller identity that AuthSession or
// OptionalSession stored; anonymous requests become a guest caller.
func callerFromContext(r *http.Request) usecase.Caller {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return usecase.GuestCaller{}
	}
	role, _ := utils.GetRoleFromContext(r.Context())
	return usecase.SessionCaller{UserID: userID, Role: role}
}
