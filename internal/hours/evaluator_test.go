package hours

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/reminder-service/internal/config"
	"github.com/spec-kit/reminder-service/internal/domain"
)

type fakeServiceHoursRepo struct {
	settings  *domain.ServiceHoursSettings
	schedules []domain.ServiceHoursSchedule
	err       error
}

func (f *fakeServiceHoursRepo) GetSettings(ctx context.Context, guildID string) (*domain.ServiceHoursSettings, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.settings == nil {
		return nil, pgx.ErrNoRows
	}
	return f.settings, nil
}

func (f *fakeServiceHoursRepo) SaveSettings(ctx context.Context, settings *domain.ServiceHoursSettings) error {
	return nil
}

func (f *fakeServiceHoursRepo) ListActiveSchedules(ctx context.Context, guildID string) ([]domain.ServiceHoursSchedule, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.schedules, nil
}

func (f *fakeServiceHoursRepo) ListSchedules(ctx context.Context, guildID string) ([]domain.ServiceHoursSchedule, error) {
	return f.schedules, nil
}

func (f *fakeServiceHoursRepo) AddSchedule(ctx context.Context, schedule *domain.ServiceHoursSchedule) error {
	return nil
}

func (f *fakeServiceHoursRepo) DeleteSchedule(ctx context.Context, guildID, scheduleID string) error {
	return nil
}

func gatedRepo(expressions ...string) *fakeServiceHoursRepo {
	repo := &fakeServiceHoursRepo{
		settings: &domain.ServiceHoursSettings{GuildID: "guild-1", Enabled: true},
	}
	for i, expr := range expressions {
		repo.schedules = append(repo.schedules, domain.ServiceHoursSchedule{
			ID:             "sched-" + string(rune('a'+i)),
			GuildID:        "guild-1",
			CronExpression: expr,
			Enabled:        true,
		})
	}
	return repo
}

func newEvaluator(repo *fakeServiceHoursRepo, enabled bool) *Evaluator {
	return NewEvaluator(config.ServiceHoursConfig{Enabled: enabled}, repo, zap.NewNop())
}

func TestIsWithinServiceHours_GlobalDisableAlwaysInService(t *testing.T) {
	ev := newEvaluator(&fakeServiceHoursRepo{}, false)

	// Sunday 03:00, no schedules; still in service because the gate is off.
	now := time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC)
	in, err := ev.IsWithinServiceHours(context.Background(), "guild-1", now)
	require.NoError(t, err)
	assert.True(t, in)
}

func TestIsWithinServiceHours_NoSettingsRowInService(t *testing.T) {
	ev := newEvaluator(&fakeServiceHoursRepo{}, true)

	in, err := ev.IsWithinServiceHours(context.Background(), "guild-1", time.Now())
	require.NoError(t, err)
	assert.True(t, in)
}

func TestIsWithinServiceHours_GuildGateDisabledInService(t *testing.T) {
	repo := &fakeServiceHoursRepo{
		settings: &domain.ServiceHoursSettings{GuildID: "guild-1", Enabled: false},
	}
	ev := newEvaluator(repo, true)

	in, err := ev.IsWithinServiceHours(context.Background(), "guild-1", time.Now())
	require.NoError(t, err)
	assert.True(t, in)
}

func TestIsWithinServiceHours_GatedWithNoSchedulesOutOfService(t *testing.T) {
	ev := newEvaluator(gatedRepo(), true)

	in, err := ev.IsWithinServiceHours(context.Background(), "guild-1", time.Now())
	require.NoError(t, err)
	assert.False(t, in)
}

func TestIsWithinServiceHours_FireWindowBoundaries(t *testing.T) {
	// "0 9-17 * * 1-5" fires at each whole hour 09:00 to 17:00, Monday to
	// Friday. Matching is a window around fire instants, not a span, so mid
	// hour reads as out of service.
	ev := newEvaluator(gatedRepo("0 9-17 * * 1-5"), true)
	ctx := context.Background()

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"monday 30s past the hour", time.Date(2025, 6, 2, 10, 0, 30, 0, time.UTC), true},
		{"monday exactly on the hour", time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC), true},
		{"monday 60s before the hour", time.Date(2025, 6, 2, 10, 59, 0, 0, time.UTC), true},
		{"monday mid hour", time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC), false},
		{"monday 61s past the hour", time.Date(2025, 6, 2, 10, 1, 1, 0, time.UTC), false},
		{"sunday on the hour", time.Date(2025, 6, 1, 10, 0, 30, 0, time.UTC), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in, err := ev.IsWithinServiceHours(ctx, "guild-1", tc.now)
			require.NoError(t, err)
			assert.Equal(t, tc.want, in)
		})
	}
}

func TestIsWithinServiceHours_AnyScheduleMatchSuffices(t *testing.T) {
	ev := newEvaluator(gatedRepo("0 9-17 * * 1-5", "0 20 * * 6,0"), true)

	// Saturday 20:00 matches only the weekend schedule.
	now := time.Date(2025, 6, 7, 20, 0, 10, 0, time.UTC)
	in, err := ev.IsWithinServiceHours(context.Background(), "guild-1", now)
	require.NoError(t, err)
	assert.True(t, in)
}

func TestIsWithinServiceHours_InvalidCronSkipped(t *testing.T) {
	ev := newEvaluator(gatedRepo("not a cron", "0 9-17 * * 1-5"), true)

	// The broken schedule is ignored; the valid one still matches.
	now := time.Date(2025, 6, 2, 9, 0, 30, 0, time.UTC)
	in, err := ev.IsWithinServiceHours(context.Background(), "guild-1", now)
	require.NoError(t, err)
	assert.True(t, in)

	// With only the broken schedule the guild reads as out of service.
	ev = newEvaluator(gatedRepo("not a cron"), true)
	in, err = ev.IsWithinServiceHours(context.Background(), "guild-1", now)
	require.NoError(t, err)
	assert.False(t, in)
}
