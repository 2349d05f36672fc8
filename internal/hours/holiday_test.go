package hours

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/reminder-service/internal/domain"
)

type fakeHolidayRepo struct {
	holidays []domain.Holiday
}

func (f *fakeHolidayRepo) ListActive(ctx context.Context, guildID string) ([]domain.Holiday, error) {
	return f.holidays, nil
}

func (f *fakeHolidayRepo) List(ctx context.Context, guildID string) ([]domain.Holiday, error) {
	return f.holidays, nil
}

func (f *fakeHolidayRepo) Add(ctx context.Context, holiday *domain.Holiday) error {
	return nil
}

func (f *fakeHolidayRepo) Delete(ctx context.Context, guildID, holidayID string) error {
	return nil
}

func datep(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func strp(s string) *string { return &s }

func TestIsHoliday_FixedRange(t *testing.T) {
	repo := &fakeHolidayRepo{holidays: []domain.Holiday{{
		ID:        "h1",
		GuildID:   "guild-1",
		Name:      "Summer break",
		StartDate: datep(2025, 7, 1),
		EndDate:   datep(2025, 7, 3),
		Enabled:   true,
	}}}
	ev := NewHolidayEvaluator(repo, zap.NewNop())
	ctx := context.Background()

	// Start is inclusive, end exclusive.
	on, err := ev.IsHoliday(ctx, "guild-1", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, on)

	on, err = ev.IsHoliday(ctx, "guild-1", time.Date(2025, 7, 2, 15, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, on)

	on, err = ev.IsHoliday(ctx, "guild-1", time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, on)

	on, err = ev.IsHoliday(ctx, "guild-1", time.Date(2025, 6, 30, 23, 59, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, on)
}

func TestIsHoliday_RecurringCron(t *testing.T) {
	// Midnight every December 25th.
	repo := &fakeHolidayRepo{holidays: []domain.Holiday{{
		ID:             "h2",
		GuildID:        "guild-1",
		Name:           "Christmas",
		CronExpression: strp("0 0 25 12 *"),
		Enabled:        true,
	}}}
	ev := NewHolidayEvaluator(repo, zap.NewNop())
	ctx := context.Background()

	on, err := ev.IsHoliday(ctx, "guild-1", time.Date(2025, 12, 25, 18, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, on)

	on, err = ev.IsHoliday(ctx, "guild-1", time.Date(2025, 12, 26, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, on)
}

func TestIsHoliday_InvalidCronIgnored(t *testing.T) {
	repo := &fakeHolidayRepo{holidays: []domain.Holiday{{
		ID:             "h3",
		GuildID:        "guild-1",
		Name:           "Broken",
		CronExpression: strp("nope"),
		Enabled:        true,
	}}}
	ev := NewHolidayEvaluator(repo, zap.NewNop())

	on, err := ev.IsHoliday(context.Background(), "guild-1", time.Now())
	require.NoError(t, err)
	assert.False(t, on)
}

func TestIsHoliday_NoEntries(t *testing.T) {
	ev := NewHolidayEvaluator(&fakeHolidayRepo{}, zap.NewNop())

	on, err := ev.IsHoliday(context.Background(), "guild-1", time.Now())
	require.NoError(t, err)
	assert.False(t, on)
}
