package adaptor

import (
	"encoding/json"
	"io"
	"net/http"

	"salon-booking/internal/dto/request"
	"salon-booking/internal/dto/response"
	"salon-booking/internal/usecase"
	"salon-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxProofFormMemory bounds multipart parsing; the blob store enforces
// the actual file size limit.
const maxProofFormMemory = 8 << 20

type BookingHandler struct {
	reservation usecase.ReservationService
	payment     usecase.PaymentWorkflowService
	sweeper     usecase.SweeperService
	log         *zap.Logger
}

func NewBookingHandler(reservation usecase.ReservationService, payment usecase.PaymentWorkflowService, sweeper usecase.SweeperService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		reservation: reservation,
		payment:     payment,
		sweeper:     sweeper,
		log:         log.With(zap.String("handler", "booking")),
	}
}

// Reserve handles POST /api/bookings (public)
func (h *BookingHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	var req request.ReserveSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.reservation.Reserve(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "reserve slot")
		return
	}

	utils.ResponseCreated(w, "success", booking)
}

// SubmitProof handles POST /api/bookings/{publicID}/submit-payment-proof (public, multipart)
func (h *BookingHandler) SubmitProof(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "publicID")

	if err := r.ParseMultipartForm(maxProofFormMemory); err != nil {
		utils.ResponseBadRequest(w, "Invalid multipart form", nil)
		return
	}

	req := request.SubmitPaymentProofRequest{
		CustomerEmail:    r.FormValue("customer_email"),
		GuestToken:       r.FormValue("guest_token"),
		PaymentMethod:    r.FormValue("payment_method"),
		PaymentReference: r.FormValue("payment_reference"),
		PaymentNotes:     r.FormValue("payment_notes"),
	}

	file, header, err := r.FormFile("payment_proof")
	if err != nil {
		utils.ResponseBadRequest(w, "Payment proof file is required", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.log.Error("Failed to read payment proof upload", zap.Error(err))
		utils.ResponseInternalError(w, "Failed to read uploaded file")
		return
	}

	proof := &request.ProofUpload{
		Filename: header.Filename,
		Data:     data,
	}

	result, err := h.payment.SubmitProof(r.Context(), publicID, &req, proof)
	if err != nil {
		handleServiceError(w, h.log, err, "submit payment proof")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// Verify handles POST /api/bookings/{publicID}/verify-payment (privileged)
func (h *BookingHandler) Verify(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "publicID")

	var req request.VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.payment.Verify(r.Context(), publicID, callerFromContext(r), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "verify payment")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// Cancel handles POST /api/bookings/{publicID}/cancel (guest or privileged)
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "publicID")

	var req request.CancelBookingRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.ResponseBadRequest(w, "Invalid request body", nil)
			return
		}
	}

	booking, err := h.payment.Cancel(r.Context(), publicID, callerFromContext(r), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// Complete handles POST /api/bookings/{publicID}/complete (privileged)
func (h *BookingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "publicID")

	booking, err := h.payment.Complete(r.Context(), publicID, callerFromContext(r))
	if err != nil {
		handleServiceError(w, h.log, err, "complete booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// TrackStatus handles POST /api/bookings/{publicID}/track-status (public, identity-gated)
func (h *BookingHandler) TrackStatus(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "publicID")

	var req request.TrackStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	status, err := h.payment.TrackStatus(r.Context(), publicID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "track booking status")
		return
	}

	utils.ResponseSuccess(w, "success", status)
}

// ListBookings handles GET /api/admin/bookings (privileged)
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	status := query.Get("status")
	limit := utils.ParseInt(query.Get("limit"), 20)
	offset := 0
	if page := utils.ParseInt(query.Get("page"), 1); page > 1 {
		offset = (page - 1) * limit
	}

	bookings, total, err := h.payment.ListBookings(r.Context(), status, limit, offset)
	if err != nil {
		handleServiceError(w, h.log, err, "list bookings")
		return
	}

	utils.ResponseSuccess(w, "success", map[string]any{
		"bookings": bookings,
		"total":    total,
	})
}

// GetBooking handles GET /api/admin/bookings/{publicID} (privileged)
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "publicID")

	booking, err := h.payment.GetBooking(r.Context(), publicID)
	if err != nil {
		handleServiceError(w, h.log, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// Sweep handles POST /api/admin/bookings/sweep (privileged)
func (h *BookingHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	expired, err := h.sweeper.Sweep(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "sweep expired bookings")
		return
	}

	utils.ResponseSuccess(w, "success", response.SweepResponse{ExpiredCount: expired})
}
