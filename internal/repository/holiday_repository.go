package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/reminder-service/internal/domain"
)

// HolidayRepository persists guild holiday entries.
type HolidayRepository interface {
	ListActive(ctx context.Context, guildID string) ([]domain.Holiday, error)
	List(ctx context.Context, guildID string) ([]domain.Holiday, error)
	Add(ctx context.Context, holiday *domain.Holiday) error
	Delete(ctx context.Context, guildID, holidayID string) error
}

type holidayRepository struct {
	pool *pgxpool.Pool
}

// NewHolidayRepository instantiates repository.
func NewHolidayRepository(pool *pgxpool.Pool) HolidayRepository {
	return &holidayRepository{pool: pool}
}

const holidayColumns = `id, guild_id, name, start_date, end_date, cron_expression, enabled, created_at`

func (r *holidayRepository) ListActive(ctx context.Context, guildID string) ([]domain.Holiday, error) {
	query := `SELECT ` + holidayColumns + ` FROM holidays WHERE guild_id=$1 AND enabled ORDER BY created_at`
	return r.collect(ctx, query, guildID)
}

func (r *holidayRepository) List(ctx context.Context, guildID string) ([]domain.Holiday, error) {
	query := `SELECT ` + holidayColumns + ` FROM holidays WHERE guild_id=$1 ORDER BY created_at`
	return r.collect(ctx, query, guildID)
}

func (r *holidayRepository) collect(ctx context.Context, query, guildID string) ([]domain.Holiday, error) {
	rows, err := r.pool.Query(ctx, query, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Holiday
	for rows.Next() {
		var h domain.Holiday
		if err := rows.Scan(&h.ID, &h.GuildID, &h.Name, &h.StartDate, &h.EndDate, &h.CronExpression, &h.Enabled, &h.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *holidayRepository) Add(ctx context.Context, holiday *domain.Holiday) error {
	const query = `
        INSERT INTO holidays (guild_id, name, start_date, end_date, cron_expression, enabled)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		holiday.GuildID,
		holiday.Name,
		holiday.StartDate,
		holiday.EndDate,
		holiday.CronExpression,
		holiday.Enabled,
	).Scan(&holiday.ID, &holiday.CreatedAt)
}

func (r *holidayRepository) Delete(ctx context.Context, guildID, holidayID string) error {
	const query = `DELETE FROM holidays WHERE guild_id=$1 AND id=$2`
	cmd, err := r.pool.Exec(ctx, query, guildID, holidayID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
