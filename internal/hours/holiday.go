package hours

import (
	"context"
	"time"

	"github.com/adhocore/gronx"
	"go.uber.org/zap"

	"github.com/spec-kit/reminder-service/internal/domain"
	"github.com/spec-kit/reminder-service/internal/repository"
)

// HolidayEvaluator decides whether a moment falls on a guild holiday. It is a
// wholly separate gate from Evaluator: the business-hours path never consults
// holidays, callers compose the two when holiday gating is wanted.
type HolidayEvaluator struct {
	repo   repository.HolidayRepository
	logger *zap.Logger
}

// NewHolidayEvaluator constructs the evaluator.
func NewHolidayEvaluator(repo repository.HolidayRepository, logger *zap.Logger) *HolidayEvaluator {
	return &HolidayEvaluator{repo: repo, logger: logger}
}

// IsHoliday reports whether now falls inside any enabled holiday entry for
// the guild. Fixed entries match on [start, end) containment; recurring
// entries match when the cron's most recent fire lands on the same calendar
// day as now.
func (e *HolidayEvaluator) IsHoliday(ctx context.Context, guildID string, now time.Time) (bool, error) {
	holidays, err := e.repo.ListActive(ctx, guildID)
	if err != nil {
		return false, err
	}

	for _, holiday := range holidays {
		if e.matches(holiday, now) {
			return true, nil
		}
	}
	return false, nil
}

func (e *HolidayEvaluator) matches(holiday domain.Holiday, now time.Time) bool {
	if holiday.Recurring() {
		prev, err := gronx.PrevTickBefore(*holiday.CronExpression, now, true)
		if err != nil {
			e.logger.Warn("invalid holiday cron expression",
				zap.String("guild_id", holiday.GuildID),
				zap.String("holiday_id", holiday.ID),
				zap.Error(err))
			return false
		}
		return sameDay(prev, now)
	}

	if holiday.StartDate == nil || holiday.EndDate == nil {
		return false
	}
	return !now.Before(*holiday.StartDate) && now.Before(*holiday.EndDate)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
