package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/reminder-service/internal/domain"
)

// ServiceHoursRepository persists the per-guild hours gate and its cron
// schedules.
type ServiceHoursRepository interface {
	// GetSettings returns the guild-level gate row; pgx.ErrNoRows when the
	// guild never configured service hours.
	GetSettings(ctx context.Context, guildID string) (*domain.ServiceHoursSettings, error)
	SaveSettings(ctx context.Context, settings *domain.ServiceHoursSettings) error
	ListActiveSchedules(ctx context.Context, guildID string) ([]domain.ServiceHoursSchedule, error)
	ListSchedules(ctx context.Context, guildID string) ([]domain.ServiceHoursSchedule, error)
	AddSchedule(ctx context.Context, schedule *domain.ServiceHoursSchedule) error
	DeleteSchedule(ctx context.Context, guildID, scheduleID string) error
}

type serviceHoursRepository struct {
	pool *pgxpool.Pool
}

// NewServiceHoursRepository instantiates repository.
func NewServiceHoursRepository(pool *pgxpool.Pool) ServiceHoursRepository {
	return &serviceHoursRepository{pool: pool}
}

func (r *serviceHoursRepository) GetSettings(ctx context.Context, guildID string) (*domain.ServiceHoursSettings, error) {
	const query = `SELECT guild_id, enabled, updated_at FROM service_hours_settings WHERE guild_id=$1`
	var s domain.ServiceHoursSettings
	if err := r.pool.QueryRow(ctx, query, guildID).Scan(&s.GuildID, &s.Enabled, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *serviceHoursRepository) SaveSettings(ctx context.Context, settings *domain.ServiceHoursSettings) error {
	const query = `
        INSERT INTO service_hours_settings (guild_id, enabled)
        VALUES ($1,$2)
        ON CONFLICT (guild_id) DO UPDATE SET enabled=EXCLUDED.enabled, updated_at=NOW()
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query, settings.GuildID, settings.Enabled).Scan(&settings.UpdatedAt)
}

func (r *serviceHoursRepository) ListActiveSchedules(ctx context.Context, guildID string) ([]domain.ServiceHoursSchedule, error) {
	const query = `
        SELECT id, guild_id, cron_expression, description, enabled, created_at
        FROM service_hours_schedules WHERE guild_id=$1 AND enabled ORDER BY created_at`
	return r.collectSchedules(ctx, query, guildID)
}

func (r *serviceHoursRepository) ListSchedules(ctx context.Context, guildID string) ([]domain.ServiceHoursSchedule, error) {
	const query = `
        SELECT id, guild_id, cron_expression, description, enabled, created_at
        FROM service_hours_schedules WHERE guild_id=$1 ORDER BY created_at`
	return r.collectSchedules(ctx, query, guildID)
}

func (r *serviceHoursRepository) collectSchedules(ctx context.Context, query, guildID string) ([]domain.ServiceHoursSchedule, error) {
	rows, err := r.pool.Query(ctx, query, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ServiceHoursSchedule
	for rows.Next() {
		var s domain.ServiceHoursSchedule
		if err := rows.Scan(&s.ID, &s.GuildID, &s.CronExpression, &s.Description, &s.Enabled, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *serviceHoursRepository) AddSchedule(ctx context.Context, schedule *domain.ServiceHoursSchedule) error {
	const query = `
        INSERT INTO service_hours_schedules (guild_id, cron_expression, description, enabled)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		schedule.GuildID,
		schedule.CronExpression,
		schedule.Description,
		schedule.Enabled,
	).Scan(&schedule.ID, &schedule.CreatedAt)
}

func (r *serviceHoursRepository) DeleteSchedule(ctx context.Context, guildID, scheduleID string) error {
	const query = `DELETE FROM service_hours_schedules WHERE guild_id=$1 AND id=$2`
	cmd, err := r.pool.Exec(ctx, query, guildID, scheduleID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
