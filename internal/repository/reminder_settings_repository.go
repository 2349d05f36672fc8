package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/reminder-service/internal/domain"
)

// ReminderSettingsRepository persists guild reminder policy.
type ReminderSettingsRepository interface {
	// Get returns the stored settings row; pgx.ErrNoRows when the guild has
	// never been configured (callers apply defaults).
	Get(ctx context.Context, guildID string) (*domain.ReminderSettings, error)
	Save(ctx context.Context, settings *domain.ReminderSettings) error
	// ListEnabled returns every guild with reminders switched on, including
	// guilds missing a notify target so the scheduler can log the
	// misconfiguration.
	ListEnabled(ctx context.Context) ([]domain.ReminderSettings, error)
}

type reminderSettingsRepository struct {
	pool *pgxpool.Pool
}

// NewReminderSettingsRepository instantiates repository.
func NewReminderSettingsRepository(pool *pgxpool.Pool) ReminderSettingsRepository {
	return &reminderSettingsRepository{pool: pool}
}

const settingsColumns = `guild_id, enabled, reminder_timeout_seconds, reminder_role_ref, reminder_mode,
        reminder_interval_seconds, reminder_max_count, updated_at`

func (r *reminderSettingsRepository) Get(ctx context.Context, guildID string) (*domain.ReminderSettings, error) {
	query := `SELECT ` + settingsColumns + ` FROM reminder_settings WHERE guild_id=$1`
	var s domain.ReminderSettings
	if err := r.pool.QueryRow(ctx, query, guildID).Scan(
		&s.GuildID,
		&s.Enabled,
		&s.ReminderTimeoutSeconds,
		&s.ReminderRoleRef,
		&s.ReminderMode,
		&s.ReminderIntervalSeconds,
		&s.ReminderMaxCount,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *reminderSettingsRepository) Save(ctx context.Context, settings *domain.ReminderSettings) error {
	const query = `
        INSERT INTO reminder_settings (guild_id, enabled, reminder_timeout_seconds, reminder_role_ref,
            reminder_mode, reminder_interval_seconds, reminder_max_count)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        ON CONFLICT (guild_id) DO UPDATE SET
            enabled=EXCLUDED.enabled,
            reminder_timeout_seconds=EXCLUDED.reminder_timeout_seconds,
            reminder_role_ref=EXCLUDED.reminder_role_ref,
            reminder_mode=EXCLUDED.reminder_mode,
            reminder_interval_seconds=EXCLUDED.reminder_interval_seconds,
            reminder_max_count=EXCLUDED.reminder_max_count,
            updated_at=NOW()
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		settings.GuildID,
		settings.Enabled,
		settings.ReminderTimeoutSeconds,
		settings.ReminderRoleRef,
		settings.ReminderMode,
		settings.ReminderIntervalSeconds,
		settings.ReminderMaxCount,
	).Scan(&settings.UpdatedAt)
}

func (r *reminderSettingsRepository) ListEnabled(ctx context.Context) ([]domain.ReminderSettings, error) {
	query := `SELECT ` + settingsColumns + ` FROM reminder_settings WHERE enabled ORDER BY guild_id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ReminderSettings
	for rows.Next() {
		var s domain.ReminderSettings
		if err := rows.Scan(
			&s.GuildID,
			&s.Enabled,
			&s.ReminderTimeoutSeconds,
			&s.ReminderRoleRef,
			&s.ReminderMode,
			&s.ReminderIntervalSeconds,
			&s.ReminderMaxCount,
			&s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
