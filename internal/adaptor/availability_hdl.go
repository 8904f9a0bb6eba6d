package adaptor

import (
	"encoding/json"
	"net/http"

	"salon-booking/internal/dto/request"
	"salon-booking/internal/usecase"
	"salon-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AvailabilityHandler struct {
	service usecase.AvailabilityService
	log     *zap.Logger
}

func NewAvailabilityHandler(service usecase.AvailabilityService, log *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log.With(zap.String("handler", "availability")),
	}
}

// List handles GET /api/availabilities (public + staff console)
func (h *AvailabilityHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := request.ListAvailabilityRequest{
		StaffID:   query.Get("staff_id"),
		ServiceID: query.Get("service_id"),
		Date:      query.Get("date"),
		IsBooked:  query.Get("is_booked"),
	}

	slots, err := h.service.List(r.Context(), callerFromContext(r), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "list availabilities")
		return
	}

	utils.ResponseSuccess(w, "success", slots)
}

// Create handles POST /api/admin/availabilities (privileged)
func (h *AvailabilityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	slot, err := h.service.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create availability")
		return
	}

	utils.ResponseCreated(w, "success", slot)
}

// Delete handles DELETE /api/admin/availabilities/{id} (privileged)
func (h *AvailabilityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleServiceError(w, h.log, err, "delete availability")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
