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

// AvailabilityFilter narrows availability listings. Zero values mean
// "no constraint"; Booked is a tri-state pointer.
type AvailabilityFilter struct {
	StaffID    uuid.UUID
	ServiceID  uuid.UUID
	Date       *time.Time
	Booked     *bool
	FutureOnly bool
	ActiveOnly bool
}

type AvailabilityRepository interface {
	Create(ctx context.Context, slot *entity.Availability) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Availability, error)
	List(ctx context.Context, filter AvailabilityFilter) ([]*entity.Availability, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// HasOverlap reports whether the staff member already has a slot
	// intersecting [start, end).
	HasOverlap(ctx context.Context, staffID uuid.UUID, start, end time.Time) (bool, error)

	// LockByIDTx takes an exclusive row lock on the slot for the duration
	// of the transaction. Returns nil when the slot does not exist.
	LockByIDTx(ctx context.Context, q database.Querier, id uuid.UUID) (*entity.Availability, error)

	// MarkBookedTx flips is_booked to true inside the transaction.
	MarkBookedTx(ctx context.Context, q database.Querier, id uuid.UUID) error

	// ReleaseSlotTx flips is_booked back to false. Releasing an already
	// free slot is a no-op; the lazy-expiration path and the sweeper share
	// this statement so double release cannot occur.
	ReleaseSlotTx(ctx context.Context, q database.Querier, id uuid.UUID) error
}

type availabilityRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAvailabilityRepository(db database.PgxIface, log *zap.Logger) AvailabilityRepository {
	return &availabilityRepository{
		db:  db,
		log: log.With(zap.String("repository", "availability")),
	}
}

const availabilityColumns = `id, staff_id, service_id, start_time, end_time, is_booked, created_at`

func scanAvailability(row pgx.Row) (*entity.Availability, error) {
	var a entity.Availability
	err := row.Scan(
		&a.ID,
		&a.StaffID,
		&a.ServiceID,
		&a.StartTime,
		&a.EndTime,
		&a.IsBooked,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *availabilityRepository) Create(ctx context.Context, slot *entity.Availability) error {
	query := `
		INSERT INTO availabilities (id, staff_id, service_id, start_time, end_time, is_booked, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		slot.ID,
		slot.StaffID,
		slot.ServiceID,
		slot.StartTime,
		slot.EndTime,
		slot.IsBooked,
		slot.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create availability",
			zap.Error(err),
			zap.String("staff_id", slot.StaffID.String()),
			zap.Time("start_time", slot.StartTime),
		)
		return fmt.Errorf("create availability for staff %s: %w", slot.StaffID.String(), err)
	}

	return nil
}

func (r *availabilityRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Availability, error) {
	query := `SELECT ` + availabilityColumns + ` FROM availabilities WHERE id = $1`

	slot, err := scanAvailability(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find availability by ID",
			zap.Error(err),
			zap.String("availability_id", id.String()),
		)
		return nil, fmt.Errorf("find availability by ID %s: %w", id.String(), err)
	}

	return slot, nil
}

func (r *availabilityRepository) List(ctx context.Context, filter AvailabilityFilter) ([]*entity.Availability, error) {
	query := `
		SELECT a.id, a.staff_id, a.service_id, a.start_time, a.end_time, a.is_booked, a.created_at
		FROM availabilities a
	`

	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.ActiveOnly {
		query += `
		JOIN staff st ON st.id = a.staff_id
		JOIN services sv ON sv.id = a.service_id
		`
		conds = append(conds, "st.is_active = TRUE", "sv.is_active = TRUE")
	}
	if filter.StaffID != uuid.Nil {
		conds = append(conds, "a.staff_id = "+arg(filter.StaffID))
	}
	if filter.ServiceID != uuid.Nil {
		conds = append(conds, "a.service_id = "+arg(filter.ServiceID))
	}
	if filter.Date != nil {
		dayStart := time.Date(filter.Date.Year(), filter.Date.Month(), filter.Date.Day(), 0, 0, 0, 0, filter.Date.Location())
		conds = append(conds, "a.start_time >= "+arg(dayStart))
		conds = append(conds, "a.start_time < "+arg(dayStart.AddDate(0, 0, 1)))
	}
	if filter.Booked != nil {
		conds = append(conds, "a.is_booked = "+arg(*filter.Booked))
	}
	if filter.FutureOnly {
		conds = append(conds, "a.start_time > NOW()")
	}

	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY a.start_time"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list availabilities", zap.Error(err))
		return nil, fmt.Errorf("list availabilities: %w", err)
	}
	defer rows.Close()

	var slots []*entity.Availability
	for rows.Next() {
		slot, err := scanAvailability(rows)
		if err != nil {
			r.log.Error("Failed to scan availability row", zap.Error(err))
			return nil, fmt.Errorf("scan availability row: %w", err)
		}
		slots = append(slots, slot)
	}

	return slots, rows.Err()
}

func (r *availabilityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM availabilities WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete availability",
			zap.Error(err),
			zap.String("availability_id", id.String()),
		)
		return fmt.Errorf("delete availability %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("availability %s not found", id.String())
	}

	return nil
}

func (r *availabilityRepository) HasOverlap(ctx context.Context, staffID uuid.UUID, start, end time.Time) (bool, error) {
	// Half-open interval intersection: existing.start < new.end AND existing.end > new.start
	query := `
		SELECT EXISTS (
			SELECT 1 FROM availabilities
			WHERE staff_id = $1 AND start_time < $3 AND end_time > $2
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, staffID, start, end).Scan(&exists); err != nil {
		r.log.Error("Failed to check slot overlap",
			zap.Error(err),
			zap.String("staff_id", staffID.String()),
		)
		return false, fmt.Errorf("check slot overlap for staff %s: %w", staffID.String(), err)
	}

	return exists, nil
}

func (r *availabilityRepository) LockByIDTx(ctx context.Context, q database.Querier, id uuid.UUID) (*entity.Availability, error) {
	query := `SELECT ` + availabilityColumns + ` FROM availabilities WHERE id = $1 FOR UPDATE`

	slot, err := scanAvailability(q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to lock availability",
			zap.Error(err),
			zap.String("availability_id", id.String()),
		)
		return nil, fmt.Errorf("lock availability %s: %w", id.String(), err)
	}

	return slot, nil
}

func (r *availabilityRepository) MarkBookedTx(ctx context.Context, q database.Querier, id uuid.UUID) error {
	query := `UPDATE availabilities SET is_booked = TRUE WHERE id = $1`

	result, err := q.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to mark slot booked",
			zap.Error(err),
			zap.String("availability_id", id.String()),
		)
		return fmt.Errorf("mark slot %s booked: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("availability %s not found", id.String())
	}

	return nil
}

func (r *availabilityRepository) ReleaseSlotTx(ctx context.Context, q database.Querier, id uuid.UUID) error {
	query := `UPDATE availabilities SET is_booked = FALSE WHERE id = $1 AND is_booked = TRUE`

	if _, err := q.Exec(ctx, query, id); err != nil {
		r.log.Error("Failed to release slot",
			zap.Error(err),
			zap.String("availability_id", id.String()),
		)
		return fmt.Errorf("release slot %s: %w", id.String(), err)
	}

	return nil
}
