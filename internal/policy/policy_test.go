package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/reminder-service/internal/domain"
)

var base = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

func ts(offset time.Duration) *time.Time {
	t := base.Add(offset)
	return &t
}

func settings(mode domain.ReminderMode) domain.ReminderSettings {
	return domain.ReminderSettings{
		GuildID:                 "guild-1",
		Enabled:                 true,
		ReminderTimeoutSeconds:  600,
		ReminderMode:            mode,
		ReminderIntervalSeconds: 60,
		ReminderMaxCount:        3,
	}
}

func TestEvaluate_NoCustomerMessage(t *testing.T) {
	tracking := domain.ResponseTracking{TicketID: "t1"}

	decision := Evaluate(tracking, settings(domain.ReminderModeOnce), base.Add(time.Hour))

	assert.False(t, decision.Eligible)
}

func TestEvaluate_NoResponseNeededBlocksAllModes(t *testing.T) {
	tracking := domain.ResponseTracking{
		TicketID:              "t1",
		LastCustomerMessageAt: ts(0),
		NoResponseNeeded:      true,
	}

	for _, mode := range []domain.ReminderMode{domain.ReminderModeOnce, domain.ReminderModeContinuous, domain.ReminderModeLimited} {
		decision := Evaluate(tracking, settings(mode), base.Add(24*time.Hour))
		assert.False(t, decision.Eligible, "mode %s", mode)
	}
}

func TestEvaluate_StaffResponseAfterCustomerBlocks(t *testing.T) {
	tracking := domain.ResponseTracking{
		TicketID:              "t1",
		LastCustomerMessageAt: ts(0),
		LastStaffResponseAt:   ts(time.Minute),
	}

	decision := Evaluate(tracking, settings(domain.ReminderModeOnce), base.Add(time.Hour))

	assert.False(t, decision.Eligible)
}

func TestEvaluate_CustomerMessageAfterStaffResponseEligible(t *testing.T) {
	tracking := domain.ResponseTracking{
		TicketID:              "t1",
		LastStaffResponseAt:   ts(-time.Minute),
		LastCustomerMessageAt: ts(0),
	}

	decision := Evaluate(tracking, settings(domain.ReminderModeOnce), base.Add(601*time.Second))

	assert.True(t, decision.Eligible)
}

func TestEvaluate_OnceMode(t *testing.T) {
	tracking := domain.ResponseTracking{TicketID: "t1", LastCustomerMessageAt: ts(0)}
	cfg := settings(domain.ReminderModeOnce)

	// Just short of the timeout.
	decision := Evaluate(tracking, cfg, base.Add(599*time.Second))
	assert.False(t, decision.Eligible)

	// Past the timeout.
	decision = Evaluate(tracking, cfg, base.Add(601*time.Second))
	require.True(t, decision.Eligible)
	assert.True(t, decision.Next.ReminderSent)
	assert.Equal(t, 1, decision.Next.ReminderCount)
	require.NotNil(t, decision.Next.LastReminderAt)
	assert.Equal(t, base.Add(601*time.Second), *decision.Next.LastReminderAt)
	require.NotNil(t, decision.Next.ReminderSentAt)

	// Pure function: without applying the update the same input stays eligible.
	again := Evaluate(tracking, cfg, base.Add(601*time.Second))
	assert.True(t, again.Eligible)

	// After applying the update no further reminder fires.
	applied := decision.Next
	decision = Evaluate(applied, cfg, base.Add(700*time.Second))
	assert.False(t, decision.Eligible)
}

func TestEvaluate_ContinuousModeRepeats(t *testing.T) {
	tracking := domain.ResponseTracking{TicketID: "t1", LastCustomerMessageAt: ts(0)}
	cfg := settings(domain.ReminderModeContinuous)

	first := Evaluate(tracking, cfg, base.Add(601*time.Second))
	require.True(t, first.Eligible)
	assert.Equal(t, 1, first.Next.ReminderCount)

	// Interval not yet elapsed after the first send.
	decision := Evaluate(first.Next, cfg, base.Add(660*time.Second))
	assert.False(t, decision.Eligible)

	second := Evaluate(first.Next, cfg, base.Add(661*time.Second))
	require.True(t, second.Eligible)
	assert.Equal(t, 2, second.Next.ReminderCount)

	// And it keeps going absent staff action.
	third := Evaluate(second.Next, cfg, base.Add(721*time.Second))
	require.True(t, third.Eligible)
	assert.Equal(t, 3, third.Next.ReminderCount)
}

func TestEvaluate_FirstReminderUsesTimeoutRule(t *testing.T) {
	// A record that has never been reminded is judged by the timeout rule
	// even when interval arithmetic would already pass.
	tracking := domain.ResponseTracking{TicketID: "t1", LastCustomerMessageAt: ts(0)}
	cfg := settings(domain.ReminderModeContinuous)

	decision := Evaluate(tracking, cfg, base.Add(90*time.Second))
	assert.False(t, decision.Eligible)
}

func TestEvaluate_LimitedModeCaps(t *testing.T) {
	cfg := settings(domain.ReminderModeLimited)
	tracking := domain.ResponseTracking{TicketID: "t1", LastCustomerMessageAt: ts(0)}

	now := base.Add(601 * time.Second)
	for i := 1; i <= 3; i++ {
		decision := Evaluate(tracking, cfg, now)
		require.True(t, decision.Eligible, "send %d", i)
		assert.Equal(t, i, decision.Next.ReminderCount)
		tracking = decision.Next
		now = now.Add(61 * time.Second)
	}

	// Cap reached; ineligible no matter how much time passes.
	decision := Evaluate(tracking, cfg, now.Add(24*time.Hour))
	assert.False(t, decision.Eligible)

	// A staff response resets the counters and re-arms after the next
	// customer message.
	reset := tracking
	reset.LastStaffResponseAt = ts(2000 * time.Second)
	reset.ReminderSent = false
	reset.ReminderCount = 0
	reset.LastReminderAt = nil
	reset.LastCustomerMessageAt = ts(2100 * time.Second)

	decision = Evaluate(reset, cfg, base.Add(2100*time.Second).Add(601*time.Second))
	require.True(t, decision.Eligible)
	assert.Equal(t, 1, decision.Next.ReminderCount)
}

func TestEvaluate_ResetAfterStaffResponse(t *testing.T) {
	cfg := settings(domain.ReminderModeOnce)
	tracking := domain.ResponseTracking{TicketID: "t1", LastCustomerMessageAt: ts(0)}

	eligible := Evaluate(tracking, cfg, base.Add(601*time.Second))
	require.True(t, eligible.Eligible)

	// Staff replied; the same elapsed time no longer qualifies.
	answered := tracking
	answered.LastStaffResponseAt = ts(300 * time.Second)
	decision := Evaluate(answered, cfg, base.Add(601*time.Second))
	assert.False(t, decision.Eligible)

	// A newer customer message re-arms the timeout.
	answered.LastCustomerMessageAt = ts(400 * time.Second)
	decision = Evaluate(answered, cfg, base.Add(400*time.Second).Add(601*time.Second))
	assert.True(t, decision.Eligible)
}
