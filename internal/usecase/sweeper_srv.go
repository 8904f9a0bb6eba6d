package usecase

import (
	"context"
	"time"

	"salon-booking/internal/data/entity"
	"salon-booking/internal/data/repository"
	"salon-booking/pkg/database"
	"salon-booking/pkg/notifier"

	"go.uber.org/zap"
)

// SweeperService reclaims bookings whose payment window lapsed without
// a proof submission. Safe to run concurrently with request traffic and
// with other sweep invocations.
type SweeperService interface {
	Sweep(ctx context.Context) (int, error)
}

type sweeperService struct {
	repo   *repository.Repository
	notify notifier.Notifier
	log    *zap.Logger
}

func NewSweeperService(repo *repository.Repository, notify notifier.Notifier, log *zap.Logger) SweeperService {
	return &sweeperService{
		repo:   repo,
		notify: notify,
		log:    log.With(zap.String("service", "sweeper")),
	}
}

func (s *sweeperService) Sweep(ctx context.Context) (int, error) {
	now := time.Now()

	// Unlocked snapshot first, then one short transaction per booking.
	// Holding every overdue row in a single transaction would serialize
	// against live submit and cancel traffic for the whole batch.
	ids, err := s.repo.Booking.FindExpiredAwaitingIDs(ctx, now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, id := range ids {
		reclaimed := false
		err := s.repo.Tx.WithTx(ctx, func(q database.Querier) error {
			locked, err := s.repo.Booking.LockByIDTx(ctx, q, id)
			if err != nil {
				return err
			}
			if locked == nil {
				return nil
			}
			// Re-check under the lock: a proof submission or cancellation
			// may have won the race since the snapshot.
			if locked.Status != entity.BookingStatusAwaitingPayment || !locked.PaymentWindowExpired(now) {
				return nil
			}

			if err := expireBookingLocked(ctx, s.repo, q, locked, now); err != nil {
				return err
			}

			reclaimed = true
			return nil
		})
		if err != nil {
			// One failure does not abort the batch.
			s.log.Error("Failed to expire booking",
				zap.String("booking_id", id.String()),
				zap.Error(err),
			)
			continue
		}
		if reclaimed {
			expired++
			s.notify.Notify(id, notifier.EventBookingExpired)
		}
	}

	if expired > 0 {
		s.log.Info("Sweep reclaimed expired bookings",
			zap.Int("expired", expired),
			zap.Int("candidates", len(ids)),
		)
	}

	return expired, nil
}
