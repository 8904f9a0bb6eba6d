package repository

import (
	"context"
	"fmt"

	"salon-booking/internal/data/entity"
	"salon-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type StaffRepository interface {
	Create(ctx context.Context, staff *entity.Staff) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Staff, error)
	FindByIDTx(ctx context.Context, q database.Querier, id uuid.UUID) (*entity.Staff, error)
	FindByEmail(ctx context.Context, email string) (*entity.Staff, error)
	List(ctx context.Context, includeInactive bool) ([]*entity.Staff, error)
	Update(ctx context.Context, staff *entity.Staff) error
}

type staffRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewStaffRepository(db database.PgxIface, log *zap.Logger) StaffRepository {
	return &staffRepository{
		db:  db,
		log: log.With(zap.String("repository", "staff")),
	}
}

const staffColumns = `id, full_name, email, phone, is_active, created_at, updated_at`

func scanStaff(row pgx.Row) (*entity.Staff, error) {
	var s entity.Staff
	err := row.Scan(
		&s.ID,
		&s.FullName,
		&s.Email,
		&s.Phone,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *staffRepository) Create(ctx context.Context, staff *entity.Staff) error {
	query := `
		INSERT INTO staff (id, full_name, email, phone, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		staff.ID,
		staff.FullName,
		staff.Email,
		staff.Phone,
		staff.IsActive,
		staff.CreatedAt,
		staff.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create staff",
			zap.Error(err),
			zap.String("email", staff.Email),
		)
		return fmt.Errorf("create staff %s: %w", staff.Email, err)
	}

	return nil
}

func (r *staffRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Staff, error) {
	return r.findByID(ctx, r.db, id)
}

// FindByIDTx reads the staff row through the given transaction so active
// checks see the same snapshot as the slot lock.
func (r *staffRepository) FindByIDTx(ctx context.Context, q database.Querier, id uuid.UUID) (*entity.Staff, error) {
	return r.findByID(ctx, q, id)
}

func (r *staffRepository) findByID(ctx context.Context, q database.Querier, id uuid.UUID) (*entity.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE id = $1`

	staff, err := scanStaff(q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find staff by ID",
			zap.Error(err),
			zap.String("staff_id", id.String()),
		)
		return nil, fmt.Errorf("find staff by ID %s: %w", id.String(), err)
	}

	return staff, nil
}

func (r *staffRepository) FindByEmail(ctx context.Context, email string) (*entity.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE LOWER(email) = LOWER($1)`

	staff, err := scanStaff(r.db.QueryRow(ctx, query, email))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find staff by email",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find staff by email %s: %w", email, err)
	}

	return staff, nil
}

func (r *staffRepository) List(ctx context.Context, includeInactive bool) ([]*entity.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY full_name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list staff", zap.Error(err))
		return nil, fmt.Errorf("list staff: %w", err)
	}
	defer rows.Close()

	var staff []*entity.Staff
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			r.log.Error("Failed to scan staff row", zap.Error(err))
			return nil, fmt.Errorf("scan staff row: %w", err)
		}
		staff = append(staff, s)
	}

	return staff, rows.Err()
}

func (r *staffRepository) Update(ctx context.Context, staff *entity.Staff) error {
	query := `
		UPDATE staff
		SET full_name = $2, email = $3, phone = $4, is_active = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		staff.ID,
		staff.FullName,
		staff.Email,
		staff.Phone,
		staff.IsActive,
		staff.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update staff",
			zap.Error(err),
			zap.String("staff_id", staff.ID.String()),
		)
		return fmt.Errorf("update staff %s: %w", staff.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("staff %s not found", staff.ID.String())
	}

	return nil
}
