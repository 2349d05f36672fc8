package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/reminder-service/internal/domain"
)

// StaffRepository covers staff identity and per-staff reminder preferences.
type StaffRepository interface {
	GetByID(ctx context.Context, id string) (*domain.StaffMember, error)
	GetByEmail(ctx context.Context, email string) (*domain.StaffMember, error)
	// GetPreference returns the stored preference row; pgx.ErrNoRows when the
	// staff member never set one (callers assume receive=true).
	GetPreference(ctx context.Context, staffID string) (*domain.StaffPreference, error)
	SetPreference(ctx context.Context, staffID string, receiveReminders bool) error
}

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository instantiates repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

const staffColumns = `id, name, email, password_hash, role, active, created_at, updated_at`

func (r *staffRepository) GetByID(ctx context.Context, id string) (*domain.StaffMember, error) {
	query := `SELECT ` + staffColumns + ` FROM staff_members WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *staffRepository) GetByEmail(ctx context.Context, email string) (*domain.StaffMember, error) {
	query := `SELECT ` + staffColumns + ` FROM staff_members WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *staffRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.StaffMember, error) {
	var staff domain.StaffMember
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&staff.ID,
		&staff.Name,
		&staff.Email,
		&staff.PasswordHash,
		&staff.Role,
		&staff.Active,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) GetPreference(ctx context.Context, staffID string) (*domain.StaffPreference, error) {
	const query = `SELECT staff_id, receive_reminders, updated_at FROM staff_preferences WHERE staff_id=$1`
	var pref domain.StaffPreference
	if err := r.pool.QueryRow(ctx, query, staffID).Scan(&pref.StaffID, &pref.ReceiveReminders, &pref.UpdatedAt); err != nil {
		return nil, err
	}
	return &pref, nil
}

func (r *staffRepository) SetPreference(ctx context.Context, staffID string, receiveReminders bool) error {
	const query = `
        INSERT INTO staff_preferences (staff_id, receive_reminders)
        VALUES ($1,$2)
        ON CONFLICT (staff_id) DO UPDATE SET receive_reminders=EXCLUDED.receive_reminders, updated_at=NOW()`
	_, err := r.pool.Exec(ctx, query, staffID, receiveReminders)
	return err
}
