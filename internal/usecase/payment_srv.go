package usecase

import (
	"context"
	"fmt"
	"time"

	"salon-booking/internal/data/entity"
	"salon-booking/internal/data/repository"
	"salon-booking/internal/dto/request"
	"salon-booking/internal/dto/response"
	"salon-booking/pkg/blobstore"
	"salon-booking/pkg/database"
	"salon-booking/pkg/notifier"
	"salon-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentWorkflowService owns every booking transition after
// reservation. Each transition runs in one transaction with the booking
// row locked; the notification hook fires only after commit.
type PaymentWorkflowService interface {
	SubmitProof(ctx context.Context, publicID string, req *request.SubmitPaymentProofRequest, proof *request.ProofUpload) (*response.PaymentProofSubmittedResponse, error)
	Verify(ctx context.Context, publicID string, caller Caller, req *request.VerifyPaymentRequest) (*response.BookingResponse, error)
	Cancel(ctx context.Context, publicID string, caller Caller, req *request.CancelBookingRequest) (*response.BookingResponse, error)
	Complete(ctx context.Context, publicID string, caller Caller) (*response.BookingResponse, error)
	TrackStatus(ctx context.Context, publicID string, req *request.TrackStatusRequest) (*response.BookingStatusResponse, error)

	GetBooking(ctx context.Context, publicID string) (*response.BookingResponse, error)
	ListBookings(ctx context.Context, status string, limit, offset int) ([]*response.BookingResponse, int64, error)
}

type paymentWorkflowService struct {
	repo   *repository.Repository
	blobs  blobstore.Store
	notify notifier.Notifier
	log    *zap.Logger
}

func NewPaymentWorkflowService(repo *repository.Repository, blobs blobstore.Store, notify notifier.Notifier, log *zap.Logger) PaymentWorkflowService {
	return &paymentWorkflowService{
		repo:   repo,
		blobs:  blobs,
		notify: notify,
		log:    log.With(zap.String("service", "payment_workflow")),
	}
}

func (s *paymentWorkflowService) SubmitProof(ctx context.Context, publicID string, req *request.SubmitPaymentProofRequest, proof *request.ProofUpload) (*response.PaymentProofSubmittedResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Submit proof validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, utils.FormatValidationErrors(errs))
	}
	if proof == nil || len(proof.Data) == 0 {
		return nil, fmt.Errorf("%w: payment proof file is required", ErrValidationFailed)
	}

	id, err := uuid.Parse(publicID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking reference", ErrValidationFailed)
	}

	// Identity fields are immutable, so the gate can run before taking
	// the row lock.
	booking, err := s.repo.Booking.FindByPublicID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: booking %s", ErrNotFound, publicID)
	}
	if !VerifyGuestIdentity(booking, req.CustomerEmail, req.GuestToken) {
		s.log.Warn("Submit proof identity mismatch", zap.String("public_id", publicID))
		return nil, ErrIdentityVerificationFailed
	}

	// The blob is stored before the transaction; an orphaned file on a
	// failed transition is harmless and cleaned by ops tooling.
	proofRef, err := s.blobs.Save(proof.Filename, proof.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	var (
		updated *entity.Booking
		expired bool
	)

	err = s.repo.Tx.WithTx(ctx, func(q database.Querier) error {
		locked, err := s.repo.Booking.LockByPublicIDTx(ctx, q, id)
		if err != nil {
			return err
		}
		if locked == nil {
			return fmt.Errorf("%w: booking %s", ErrNotFound, publicID)
		}
		if locked.Status != entity.BookingStatusAwaitingPayment {
			return fmt.Errorf("%w: payment proof can only be submitted while awaiting payment", ErrInvalidTransition)
		}

		now := time.Now()
		if locked.PaymentWindowExpired(now) {
			// Lazy expiration: reclaim inside the caller's own request so
			// the submitter observes a consistent cancelled state without
			// waiting for the sweep. The cancellation commits even though
			// the submission fails.
			expired = true
			updated = locked
			return s.expireLocked(ctx, q, locked, now)
		}

		inUse, err := s.repo.Booking.PaymentReferenceInUseTx(ctx, q, entity.PaymentMethod(req.PaymentMethod), req.PaymentReference, locked.ID)
		if err != nil {
			return err
		}
		if inUse {
			return fmt.Errorf("%w: payment reference already used by another booking", ErrValidationFailed)
		}

		locked.Status = entity.BookingStatusPaymentSubmitted
		locked.PaymentMethod = entity.PaymentMethod(req.PaymentMethod)
		locked.PaymentReference = req.PaymentReference
		locked.PaymentProofRef = proofRef
		locked.PaymentNotes = req.PaymentNotes
		locked.PaymentSubmittedAt = &now
		locked.PaymentRejectionReason = ""
		locked.UpdatedAt = now

		updated = locked
		return s.repo.Booking.UpdateTx(ctx, q, locked)
	})

	if err != nil {
		return nil, err
	}

	if expired {
		s.log.Info("Booking lazily expired on proof submission",
			zap.String("public_id", publicID),
		)
		s.notify.Notify(updated.ID, notifier.EventBookingExpired)
		return nil, ErrPaymentWindowExpired
	}

	s.log.Info("Payment proof submitted",
		zap.String("public_id", publicID),
		zap.String("payment_method", string(updated.PaymentMethod)),
	)

	s.notify.Notify(updated.ID, notifier.EventPaymentSubmitted)

	return &response.PaymentProofSubmittedResponse{
		PublicID:           updated.PublicID.String(),
		Status:             string(updated.Status),
		PaymentSubmittedAt: updated.PaymentSubmittedAt,
		Message:            "Payment proof submitted. Awaiting verification.",
	}, nil
}

func (s *paymentWorkflowService) Verify(ctx context.Context, publicID string, caller Caller, req *request.VerifyPaymentRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Verify payment validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, utils.FormatValidationErrors(errs))
	}
	if caller == nil || !caller.IsPrivileged() {
		return nil, ErrIdentityVerificationFailed
	}

	id, err := uuid.Parse(publicID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking reference", ErrValidationFailed)
	}

	approved := *req.Approved

	var (
		updated *entity.Booking
		event   string
	)

	err = s.repo.Tx.WithTx(ctx, func(q database.Querier) error {
		locked, err := s.repo.Booking.LockByPublicIDTx(ctx, q, id)
		if err != nil {
			return err
		}
		if locked == nil {
			return fmt.Errorf("%w: booking %s", ErrNotFound, publicID)
		}
		if locked.Status != entity.BookingStatusPaymentSubmitted {
			return fmt.Errorf("%w: only payment-submitted bookings can be verified", ErrInvalidTransition)
		}

		now := time.Now()

		if approved {
			actorID := caller.ID()
			locked.Status = entity.BookingStatusConfirmed
			locked.PaymentVerifiedAt = &now
			locked.PaymentVerifiedBy = &actorID
			if req.AdminNote != "" {
				locked.PaymentNotes = req.AdminNote
			}
			locked.UpdatedAt = now
			event = notifier.EventPaymentVerified
			updated = locked
			return s.repo.Booking.UpdateTx(ctx, q, locked)
		}

		locked.PaymentRejectionReason = req.AdminNote

		if locked.PaymentWindowExpired(now) {
			// Time has run out regardless of the rejection; reclaim the
			// slot the same way the submit path does.
			event = notifier.EventBookingExpired
			updated = locked
			return s.expireLocked(ctx, q, locked, now)
		}

		// Still inside the window: back to awaiting payment with the slot
		// held, so the customer may retry with new proof.
		locked.Status = entity.BookingStatusAwaitingPayment
		locked.UpdatedAt = now
		event = notifier.EventPaymentRejected
		updated = locked
		return s.repo.Booking.UpdateTx(ctx, q, locked)
	})

	if err != nil {
		return nil, err
	}

	s.log.Info("Payment verification recorded",
		zap.String("public_id", publicID),
		zap.Bool("approved", approved),
		zap.String("status", string(updated.Status)),
	)

	s.notify.Notify(updated.ID, event)

	return response.BookingToResponse(updated), nil
}

func (s *paymentWorkflowService) Cancel(ctx context.Context, publicID string, caller Caller, req *request.CancelBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Cancel booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, utils.FormatValidationErrors(errs))
	}
	if caller == nil {
		caller = GuestCaller{}
	}

	id, err := uuid.Parse(publicID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking reference", ErrValidationFailed)
	}

	var (
		updated       *entity.Booking
		alreadyCancel bool
	)

	err = s.repo.Tx.WithTx(ctx, func(q database.Querier) error {
		locked, err := s.repo.Booking.LockByPublicIDTx(ctx, q, id)
		if err != nil {
			return err
		}
		if locked == nil {
			return fmt.Errorf("%w: booking %s", ErrNotFound, publicID)
		}

		if !caller.IsPrivileged() {
			if !VerifyGuestIdentity(locked, req.CustomerEmail, req.GuestToken) {
				return ErrIdentityVerificationFailed
			}
		}

		if locked.Status == entity.BookingStatusCompleted {
			return ErrCannotCancelCompleted
		}
		if locked.Status == entity.BookingStatusCancelled {
			// Idempotent: return the record unchanged.
			alreadyCancel = true
			updated = locked
			return nil
		}

		slot, err := s.repo.Availability.LockByIDTx(ctx, q, locked.AvailabilityID)
		if err != nil {
			return err
		}

		now := time.Now()
		if !caller.IsPrivileged() && slot != nil && !slot.StartTime.After(now) {
			// The guard protects customers from cancelling a slot they are
			// currently occupying; privileged callers may cancel anytime.
			return fmt.Errorf("%w: booking can only be cancelled before the slot start time", ErrInvalidTransition)
		}

		locked.Status = entity.BookingStatusCancelled
		locked.CancelReason = req.Reason
		locked.UpdatedAt = now

		if err := s.repo.Booking.UpdateTx(ctx, q, locked); err != nil {
			return err
		}

		updated = locked
		return s.repo.Availability.ReleaseSlotTx(ctx, q, locked.AvailabilityID)
	})

	if err != nil {
		return nil, err
	}

	if !alreadyCancel {
		s.log.Info("Booking cancelled",
			zap.String("public_id", publicID),
			zap.Bool("privileged", caller.IsPrivileged()),
		)
		s.notify.Notify(updated.ID, notifier.EventBookingCancelled)
	}

	return response.BookingToResponse(updated), nil
}

func (s *paymentWorkflowService) Complete(ctx context.Context, publicID string, caller Caller) (*response.BookingResponse, error) {
	if caller == nil || !caller.IsPrivileged() {
		return nil, ErrIdentityVerificationFailed
	}

	id, err := uuid.Parse(publicID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking reference", ErrValidationFailed)
	}

	var updated *entity.Booking

	err = s.repo.Tx.WithTx(ctx, func(q database.Querier) error {
		locked, err := s.repo.Booking.LockByPublicIDTx(ctx, q, id)
		if err != nil {
			return err
		}
		if locked == nil {
			return fmt.Errorf("%w: booking %s", ErrNotFound, publicID)
		}
		if locked.Status != entity.BookingStatusConfirmed {
			return fmt.Errorf("%w: only confirmed bookings can be completed", ErrInvalidTransition)
		}

		// The slot stays booked as a historical fact.
		locked.Status = entity.BookingStatusCompleted
		locked.UpdatedAt = time.Now()

		updated = locked
		return s.repo.Booking.UpdateTx(ctx, q, locked)
	})

	if err != nil {
		return nil, err
	}

	s.log.Info("Booking completed", zap.String("public_id", publicID))

	s.notify.Notify(updated.ID, notifier.EventBookingCompleted)

	return response.BookingToResponse(updated), nil
}

func (s *paymentWorkflowService) TrackStatus(ctx context.Context, publicID string, req *request.TrackStatusRequest) (*response.BookingStatusResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Track status validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(publicID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking reference", ErrValidationFailed)
	}

	// Read-only: no locks, slightly stale state is acceptable.
	booking, err := s.repo.Booking.FindByPublicID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: booking %s", ErrNotFound, publicID)
	}
	if !VerifyGuestIdentity(booking, req.CustomerEmail, req.GuestToken) {
		return nil, ErrIdentityVerificationFailed
	}

	resp := &response.BookingStatusResponse{
		PublicID:           booking.PublicID.String(),
		Status:             string(booking.Status),
		PaymentExpiresAt:   booking.PaymentExpiresAt,
		PaymentSubmittedAt: booking.PaymentSubmittedAt,
		PaymentVerifiedAt:  booking.PaymentVerifiedAt,
		CreatedAt:          booking.CreatedAt,
		UpdatedAt:          booking.UpdatedAt,
	}

	if slot, err := s.repo.Availability.FindByID(ctx, booking.AvailabilityID); err == nil && slot != nil {
		resp.StartTime = &slot.StartTime
		resp.EndTime = &slot.EndTime
	}
	if staff, err := s.repo.Staff.FindByID(ctx, booking.StaffID); err == nil && staff != nil {
		resp.StaffName = staff.FullName
	}
	if service, err := s.repo.Service.FindByID(ctx, booking.ServiceID); err == nil && service != nil {
		resp.ServiceName = service.Name
	}

	return resp, nil
}

// ==================== ADMIN METHODS ====================

func (s *paymentWorkflowService) GetBooking(ctx context.Context, publicID string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(publicID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking reference", ErrValidationFailed)
	}

	booking, err := s.repo.Booking.FindByPublicID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: booking %s", ErrNotFound, publicID)
	}

	return response.BookingToResponse(booking), nil
}

func (s *paymentWorkflowService) ListBookings(ctx context.Context, status string, limit, offset int) ([]*response.BookingResponse, int64, error) {
	bookings, err := s.repo.Booking.List(ctx, entity.BookingStatus(status), limit, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.repo.Booking.Count(ctx, entity.BookingStatus(status))
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*response.BookingResponse, len(bookings))
	for i, b := range bookings {
		responses[i] = response.BookingToResponse(b)
	}

	return responses, total, nil
}

func (s *paymentWorkflowService) expireLocked(ctx context.Context, q database.Querier, booking *entity.Booking, now time.Time) error {
	return expireBookingLocked(ctx, s.repo, q, booking, now)
}

// expireBookingLocked cancels an overdue booking and releases its slot.
// Shared by the lazy-expiration paths and the sweeper so the release
// logic cannot drift between them. The booking row must already be
// locked by the caller's transaction.
func expireBookingLocked(ctx context.Context, repo *repository.Repository, q database.Querier, booking *entity.Booking, now time.Time) error {
	booking.Status = entity.BookingStatusCancelled
	if booking.CancelReason == "" {
		booking.CancelReason = "Payment window expired"
	}
	booking.UpdatedAt = now

	if err := repo.Booking.UpdateTx(ctx, q, booking); err != nil {
		return err
	}

	return repo.Availability.ReleaseSlotTx(ctx, q, booking.AvailabilityID)
}
