// Package scheduler drives the periodic reminder evaluation. The loop is
// self-rescheduling: the next tick is armed only after the current run
// returns, so two runs can never race over the same tracking rows.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/reminder-service/internal/config"
	"github.com/spec-kit/reminder-service/internal/domain"
	"github.com/spec-kit/reminder-service/internal/hours"
	"github.com/spec-kit/reminder-service/internal/notify"
	"github.com/spec-kit/reminder-service/internal/observability"
	"github.com/spec-kit/reminder-service/internal/policy"
	"github.com/spec-kit/reminder-service/internal/repository"
)

// Dependencies bundles the collaborators the scheduler drives.
type Dependencies struct {
	Settings repository.ReminderSettingsRepository
	Tickets  repository.TicketRepository
	Tracking repository.ResponseTrackingRepository
	Staff    repository.StaffRepository
	Hours    *hours.Evaluator
	// Holidays is optional; when nil, holiday gating is off.
	Holidays *hours.HolidayEvaluator
	Notifier notify.Notifier
	Clock    Clock
	Metrics  *observability.Metrics
	Logger   *zap.Logger
}

// Scheduler owns the reminder poll loop.
type Scheduler struct {
	deps         Dependencies
	tickInterval time.Duration
	startupDelay time.Duration

	inFlight atomic.Bool
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// runStats accumulates the outcome of one pass for logging and metrics.
type runStats struct {
	guildsChecked      int
	guildsSkippedHours int
	guildsSkippedConf  int
	ticketsChecked     int
	remindersSent      int
	errors             int
}

// New constructs the scheduler.
func New(cfg config.SchedulerConfig, deps Dependencies) *Scheduler {
	if deps.Clock == nil {
		deps.Clock = SystemClock()
	}
	return &Scheduler{
		deps:         deps,
		tickInterval: cfg.TickInterval(),
		startupDelay: cfg.StartupDelay(),
		stopCh:       make(chan struct{}),
	}
}

// Start launches the poll loop. The first tick waits out the startup delay so
// dependent subsystems can finish initializing.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.loop()
	s.deps.Logger.Info("reminder scheduler started",
		zap.Duration("tick_interval", s.tickInterval),
		zap.Duration("startup_delay", s.startupDelay))
}

// Stop prevents further ticks from being scheduled and waits for any
// in-flight run to complete.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()
	s.deps.Logger.Info("reminder scheduler stopped")
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	timer := time.NewTimer(s.startupDelay)
	defer timer.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-timer.C:
		}

		s.tick()

		// Re-arm only after the run finished; a fixed-period ticker could
		// overlap runs when a pass outlasts the interval.
		timer.Reset(s.tickInterval)
	}
}

// tick shields the loop from anything RunOnce lets escape.
func (s *Scheduler) tick() {
	defer func() {
		if r := recover(); r != nil {
			s.deps.Logger.Error("scheduler tick panicked",
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
		}
	}()

	if err := s.RunOnce(context.Background(), s.deps.Clock.Now()); err != nil {
		s.deps.Logger.Error("scheduler run failed", zap.Error(err))
	}
}

// RunOnce performs one full evaluation pass at the given instant. It is
// deterministic given now and the backing repository and notifier state, and
// single-flight: a call while another run is in progress is skipped.
func (s *Scheduler) RunOnce(ctx context.Context, now time.Time) error {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.deps.Logger.Warn("previous scheduler run still in progress; skipping")
		return nil
	}
	defer s.inFlight.Store(false)

	stats := runStats{}

	guilds, err := s.deps.Settings.ListEnabled(ctx)
	if err != nil {
		return fmt.Errorf("list enabled guilds: %w", err)
	}

	for _, settings := range guilds {
		stats.guildsChecked++
		s.processGuild(ctx, settings, now, &stats)
	}

	s.deps.Metrics.RecordSchedulerRun(now, stats.remindersSent, stats.guildsSkippedHours, stats.guildsSkippedConf, stats.errors)
	s.deps.Logger.Debug("scheduler run complete",
		zap.Int("guilds_checked", stats.guildsChecked),
		zap.Int("guilds_skipped_hours", stats.guildsSkippedHours),
		zap.Int("guilds_skipped_config", stats.guildsSkippedConf),
		zap.Int("tickets_checked", stats.ticketsChecked),
		zap.Int("reminders_sent", stats.remindersSent),
		zap.Int("errors", stats.errors))
	return nil
}

// processGuild gates one guild and walks its candidates. Failures are logged
// and counted, never allowed to abort the remaining guilds.
func (s *Scheduler) processGuild(ctx context.Context, settings domain.ReminderSettings, now time.Time, stats *runStats) {
	logger := s.deps.Logger.With(zap.String("guild_id", settings.GuildID))

	if !settings.HasNotifyTarget() {
		logger.Warn("reminders enabled without a notify target; skipping guild")
		stats.guildsSkippedConf++
		return
	}

	within, err := s.deps.Hours.IsWithinServiceHours(ctx, settings.GuildID, now)
	if err != nil {
		logger.Error("service hours check failed", zap.Error(err))
		stats.errors++
		return
	}
	if !within {
		stats.guildsSkippedHours++
		return
	}

	if s.deps.Holidays != nil {
		holiday, err := s.deps.Holidays.IsHoliday(ctx, settings.GuildID, now)
		if err != nil {
			logger.Error("holiday check failed", zap.Error(err))
			stats.errors++
			return
		}
		if holiday {
			stats.guildsSkippedHours++
			return
		}
	}

	candidates, err := s.deps.Tickets.ListReminderCandidates(ctx, settings.GuildID)
	if err != nil {
		logger.Error("fetch reminder candidates failed", zap.Error(err))
		stats.errors++
		return
	}

	for _, candidate := range candidates {
		stats.ticketsChecked++
		sent, err := s.processTicket(ctx, settings, candidate, now)
		if sent {
			stats.remindersSent++
		}
		if err != nil {
			logger.Error("process ticket failed",
				zap.String("ticket_id", candidate.Ticket.ID),
				zap.Error(err))
			stats.errors++
		}
	}
}

// processTicket evaluates one candidate and performs the reminder side
// effects in order: suppress the previous message's controls, send the new
// reminder, persist the computed state with the fresh message ref. Tracking
// is written only after the send succeeds, so a delivery failure is simply
// retried next tick.
func (s *Scheduler) processTicket(ctx context.Context, settings domain.ReminderSettings, candidate repository.ReminderCandidate, now time.Time) (bool, error) {
	decision := policy.Evaluate(candidate.Tracking, settings, now)
	if !decision.Eligible {
		return false, nil
	}

	mention := s.resolveMention(ctx, settings, candidate.Ticket)

	if ref := candidate.Tracking.LastReminderMessageRef; ref != nil && *ref != "" {
		if err := s.deps.Notifier.SuppressControls(ctx, *ref); err != nil {
			// The old message may already be gone; the new reminder still goes out.
			s.deps.Logger.Warn("suppress previous reminder failed",
				zap.String("ticket_id", candidate.Ticket.ID),
				zap.String("message_ref", *ref),
				zap.Error(err))
		}
	}

	escalation := 0
	if settings.ReminderMode.Repeating() {
		escalation = decision.Next.ReminderCount
	}

	text := reminderText(candidate, now)
	messageRef, err := s.deps.Notifier.SendReminder(ctx, candidate.Ticket.ChannelID, mention, text, escalation)
	if err != nil {
		return false, fmt.Errorf("send reminder: %w", err)
	}

	next := decision.Next
	next.LastReminderMessageRef = &messageRef
	if err := s.deps.Tracking.SaveReminderState(ctx, &next); err != nil {
		return true, fmt.Errorf("persist reminder state: %w", err)
	}
	return true, nil
}

// resolveMention addresses the assigned staff member when they accept
// reminders, falling back to the guild's notify role. Staff without a stored
// preference row receive reminders; only a real lookup failure falls back to
// the role, since routing must not block delivery.
func (s *Scheduler) resolveMention(ctx context.Context, settings domain.ReminderSettings, ticket domain.Ticket) string {
	if ticket.AssignedStaffID == nil {
		return *settings.ReminderRoleRef
	}

	pref, err := s.deps.Staff.GetPreference(ctx, *ticket.AssignedStaffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return *ticket.AssignedStaffID
		}
		return *settings.ReminderRoleRef
	}
	if !pref.ReceiveReminders {
		return *settings.ReminderRoleRef
	}
	return *ticket.AssignedStaffID
}

// reminderText builds the reminder line. Rendering beyond plain text belongs
// to the chat gateway.
func reminderText(candidate repository.ReminderCandidate, now time.Time) string {
	waiting := "a customer message"
	if candidate.Tracking.LastCustomerMessageAt != nil {
		waiting = fmt.Sprintf("a customer message from %s ago",
			formatDuration(now.Sub(*candidate.Tracking.LastCustomerMessageAt)))
	}
	return fmt.Sprintf("Ticket %s has %s waiting for a staff response.", candidate.Ticket.ID, waiting)
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	hoursPart := int(d.Hours())
	minutesPart := int(d.Minutes()) % 60
	if minutesPart == 0 {
		return fmt.Sprintf("%dh", hoursPart)
	}
	return fmt.Sprintf("%dh%dm", hoursPart, minutesPart)
}
