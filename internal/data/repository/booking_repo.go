package repository

import (
	"context"
	"fmt"
	"time"

	"salon-booking/internal/data/entity"
	"salon-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	CreateTx(ctx context.Context, q database.Querier, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByPublicID(ctx context.Context, publicID uuid.UUID) (*entity.Booking, error)
	List(ctx context.Context, status entity.BookingStatus, limit, offset int) ([]*entity.Booking, error)
	Count(ctx context.Context, status entity.BookingStatus) (int64, error)
	ExistsForAvailability(ctx context.Context, availabilityID uuid.UUID) (bool, error)

	// LockByPublicIDTx / LockByIDTx take an exclusive row lock on the
	// booking for the duration of the transaction. Nil when absent.
	LockByPublicIDTx(ctx context.Context, q database.Querier, publicID uuid.UUID) (*entity.Booking, error)
	LockByIDTx(ctx context.Context, q database.Querier, id uuid.UUID) (*entity.Booking, error)

	// UpdateTx writes the booking's mutable workflow fields.
	UpdateTx(ctx context.Context, q database.Querier, booking *entity.Booking) error

	// PaymentReferenceInUseTx reports whether another non-cancelled booking
	// already carries the (method, reference) attestation pair.
	PaymentReferenceInUseTx(ctx context.Context, q database.Querier, method entity.PaymentMethod, reference string, exclude uuid.UUID) (bool, error)

	// FindExpiredAwaitingIDs returns ids of awaiting-payment bookings whose
	// deadline has passed. Snapshot only, no locks; callers must re-check
	// state after locking each row.
	FindExpiredAwaitingIDs(ctx context.Context, now time.Time) ([]uuid.UUID, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, public_id, guest_token, customer_name, customer_email, customer_phone, notes,
	       service_id, staff_id, availability_id, status,
	       payment_expires_at, payment_submitted_at, payment_method, payment_reference,
	       payment_proof_ref, payment_notes, payment_verified_at, payment_verified_by,
	       payment_rejection_reason, cancel_reason, created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID,
		&b.PublicID,
		&b.GuestToken,
		&b.CustomerName,
		&b.CustomerEmail,
		&b.CustomerPhone,
		&b.Notes,
		&b.ServiceID,
		&b.StaffID,
		&b.AvailabilityID,
		&b.Status,
		&b.PaymentExpiresAt,
		&b.PaymentSubmittedAt,
		&b.PaymentMethod,
		&b.PaymentReference,
		&b.PaymentProofRef,
		&b.PaymentNotes,
		&b.PaymentVerifiedAt,
		&b.PaymentVerifiedBy,
		&b.PaymentRejectionReason,
		&b.CancelReason,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) CreateTx(ctx context.Context, q database.Querier, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, public_id, guest_token, customer_name, customer_email, customer_phone, notes,
		                      service_id, staff_id, availability_id, status,
		                      payment_expires_at, payment_submitted_at, payment_method, payment_reference,
		                      payment_proof_ref, payment_notes, payment_verified_at, payment_verified_by,
		                      payment_rejection_reason, cancel_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
	`

	_, err := q.Exec(ctx, query,
		booking.ID,
		booking.PublicID,
		booking.GuestToken,
		booking.CustomerName,
		booking.CustomerEmail,
		booking.CustomerPhone,
		booking.Notes,
		booking.ServiceID,
		booking.StaffID,
		booking.AvailabilityID,
		booking.Status,
		booking.PaymentExpiresAt,
		booking.PaymentSubmittedAt,
		booking.PaymentMethod,
		booking.PaymentReference,
		booking.PaymentProofRef,
		booking.PaymentNotes,
		booking.PaymentVerifiedAt,
		booking.PaymentVerifiedBy,
		booking.PaymentRejectionReason,
		booking.CancelReason,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("public_id", booking.PublicID.String()),
			zap.String("availability_id", booking.AvailabilityID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.PublicID.String(), err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByPublicID(ctx context.Context, publicID uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE public_id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, publicID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by public ID",
			zap.Error(err),
			zap.String("public_id", publicID.String()),
		)
		return nil, fmt.Errorf("find booking by public ID %s: %w", publicID.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) List(ctx context.Context, status entity.BookingStatus, limit, offset int) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list bookings",
			zap.Error(err),
			zap.String("status", string(status)),
		)
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

func (r *bookingRepository) Count(ctx context.Context, status entity.BookingStatus) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}

	return count, nil
}

func (r *bookingRepository) ExistsForAvailability(ctx context.Context, availabilityID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM bookings WHERE availability_id = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, availabilityID).Scan(&exists); err != nil {
		r.log.Error("Failed to check bookings for availability",
			zap.Error(err),
			zap.String("availability_id", availabilityID.String()),
		)
		return false, fmt.Errorf("check bookings for availability %s: %w", availabilityID.String(), err)
	}

	return exists, nil
}

func (r *bookingRepository) LockByPublicIDTx(ctx context.Context, q database.Querier, publicID uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE public_id = $1 FOR UPDATE`

	booking, err := scanBooking(q.QueryRow(ctx, query, publicID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to lock booking by public ID",
			zap.Error(err),
			zap.String("public_id", publicID.String()),
		)
		return nil, fmt.Errorf("lock booking %s: %w", publicID.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) LockByIDTx(ctx context.Context, q database.Querier, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`

	booking, err := scanBooking(q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to lock booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("lock booking %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) UpdateTx(ctx context.Context, q database.Querier, booking *entity.Booking) error {
	query := `
		UPDATE bookings
		SET status = $2, payment_expires_at = $3, payment_submitted_at = $4,
		    payment_method = $5, payment_reference = $6, payment_proof_ref = $7,
		    payment_notes = $8, payment_verified_at = $9, payment_verified_by = $10,
		    payment_rejection_reason = $11, cancel_reason = $12, updated_at = $13
		WHERE id = $1
	`

	result, err := q.Exec(ctx, query,
		booking.ID,
		booking.Status,
		booking.PaymentExpiresAt,
		booking.PaymentSubmittedAt,
		booking.PaymentMethod,
		booking.PaymentReference,
		booking.PaymentProofRef,
		booking.PaymentNotes,
		booking.PaymentVerifiedAt,
		booking.PaymentVerifiedBy,
		booking.PaymentRejectionReason,
		booking.CancelReason,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return fmt.Errorf("update booking %s: %w", booking.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", booking.ID.String())
	}

	return nil
}

func (r *bookingRepository) PaymentReferenceInUseTx(ctx context.Context, q database.Querier, method entity.PaymentMethod, reference string, exclude uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE payment_method = $1 AND payment_reference = $2
			  AND status <> 'cancelled' AND id <> $3
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, method, reference, exclude).Scan(&exists); err != nil {
		r.log.Error("Failed to check payment reference reuse",
			zap.Error(err),
			zap.String("payment_method", string(method)),
		)
		return false, fmt.Errorf("check payment reference reuse: %w", err)
	}

	return exists, nil
}

func (r *bookingRepository) FindExpiredAwaitingIDs(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	query := `
		SELECT id FROM bookings
		WHERE status = 'awaiting_payment' AND payment_expires_at IS NOT NULL AND payment_expires_at <= $1
		ORDER BY payment_expires_at
	`

	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		r.log.Error("Failed to find expired bookings", zap.Error(err))
		return nil, fmt.Errorf("find expired bookings: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			r.log.Error("Failed to scan booking id", zap.Error(err))
			return nil, fmt.Errorf("scan booking id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
