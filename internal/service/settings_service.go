package service

import (
	"context"
	"errors"
	"strings"

	"github.com/adhocore/gronx"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/reminder-service/internal/domain"
	"github.com/spec-kit/reminder-service/internal/notify"
	"github.com/spec-kit/reminder-service/internal/repository"
	apperrors "github.com/spec-kit/reminder-service/pkg/util"
)

// Validation bounds enforced at the administrative boundary. The core policy
// accepts any positive values; these ranges mirror what the product UI
// offers.
const (
	MinTimeoutMinutes   = 1
	MaxTimeoutMinutes   = 60
	MinIntervalSeconds  = 30
	MaxIntervalSeconds  = 600
	MinReminderMaxCount = 1
	MaxReminderMaxCount = 10
)

// SettingsService is the administrative surface over reminder configuration,
// service hours and staff preferences.
type SettingsService struct {
	settings repository.ReminderSettingsRepository
	hours    repository.ServiceHoursRepository
	holidays repository.HolidayRepository
	staff    repository.StaffRepository
	notifier notify.Notifier
	cron     *gronx.Gronx
}

// SettingsDependencies bundles collaborators for the settings service.
type SettingsDependencies struct {
	SettingsRepo repository.ReminderSettingsRepository
	HoursRepo    repository.ServiceHoursRepository
	HolidayRepo  repository.HolidayRepository
	StaffRepo    repository.StaffRepository
	Notifier     notify.Notifier
}

// DebugStatus is the introspection dump for one guild.
type DebugStatus struct {
	Settings            domain.ReminderSettings
	ScheduleCount       int
	NotifyTargetMembers int
}

// NewSettingsService constructs the service.
func NewSettingsService(deps SettingsDependencies) *SettingsService {
	return &SettingsService{
		settings: deps.SettingsRepo,
		hours:    deps.HoursRepo,
		holidays: deps.HolidayRepo,
		staff:    deps.StaffRepo,
		notifier: deps.Notifier,
		cron:     gronx.New(),
	}
}

// GetSettings returns the guild's settings with defaults applied when no row
// exists.
func (s *SettingsService) GetSettings(ctx context.Context, guildID string) (domain.ReminderSettings, error) {
	stored, err := s.settings.Get(ctx, guildID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DefaultReminderSettings(guildID), nil
		}
		return domain.ReminderSettings{}, err
	}
	return *stored, nil
}

// SetEnabled flips the reminder feature for a guild. Enabling without a
// notify target is allowed; the scheduler skips and logs such guilds until a
// role is configured.
func (s *SettingsService) SetEnabled(ctx context.Context, guildID string, enabled bool) (domain.ReminderSettings, error) {
	return s.mutate(ctx, guildID, func(settings *domain.ReminderSettings) error {
		settings.Enabled = enabled
		return nil
	})
}

// SetNotifyRole sets the opaque role reference reminders mention.
func (s *SettingsService) SetNotifyRole(ctx context.Context, guildID, roleRef string) (domain.ReminderSettings, error) {
	roleRef = strings.TrimSpace(roleRef)
	if roleRef == "" {
		return domain.ReminderSettings{}, apperrors.NewValidationError("role_ref is required", nil)
	}
	return s.mutate(ctx, guildID, func(settings *domain.ReminderSettings) error {
		settings.ReminderRoleRef = &roleRef
		return nil
	})
}

// SetTimeoutMinutes sets the first-reminder timeout, validated to 1-60
// minutes.
func (s *SettingsService) SetTimeoutMinutes(ctx context.Context, guildID string, minutes int) (domain.ReminderSettings, error) {
	if minutes < MinTimeoutMinutes || minutes > MaxTimeoutMinutes {
		return domain.ReminderSettings{}, apperrors.NewValidationError("timeout must be between 1 and 60 minutes",
			map[string]any{"timeout_minutes": minutes})
	}
	return s.mutate(ctx, guildID, func(settings *domain.ReminderSettings) error {
		settings.ReminderTimeoutSeconds = minutes * 60
		return nil
	})
}

// SetMode sets the reminder mode.
func (s *SettingsService) SetMode(ctx context.Context, guildID string, mode domain.ReminderMode) (domain.ReminderSettings, error) {
	if !mode.Valid() {
		return domain.ReminderSettings{}, apperrors.NewValidationError("mode must be once, continuous or limited",
			map[string]any{"mode": string(mode)})
	}
	return s.mutate(ctx, guildID, func(settings *domain.ReminderSettings) error {
		settings.ReminderMode = mode
		return nil
	})
}

// SetIntervalSeconds sets the repeat interval, validated to 30-600 seconds.
func (s *SettingsService) SetIntervalSeconds(ctx context.Context, guildID string, seconds int) (domain.ReminderSettings, error) {
	if seconds < MinIntervalSeconds || seconds > MaxIntervalSeconds {
		return domain.ReminderSettings{}, apperrors.NewValidationError("interval must be between 30 and 600 seconds",
			map[string]any{"interval_seconds": seconds})
	}
	return s.mutate(ctx, guildID, func(settings *domain.ReminderSettings) error {
		settings.ReminderIntervalSeconds = seconds
		return nil
	})
}

// SetMaxCount sets the limited-mode cap, validated to 1-10.
func (s *SettingsService) SetMaxCount(ctx context.Context, guildID string, count int) (domain.ReminderSettings, error) {
	if count < MinReminderMaxCount || count > MaxReminderMaxCount {
		return domain.ReminderSettings{}, apperrors.NewValidationError("max count must be between 1 and 10",
			map[string]any{"max_count": count})
	}
	return s.mutate(ctx, guildID, func(settings *domain.ReminderSettings) error {
		settings.ReminderMaxCount = count
		return nil
	})
}

func (s *SettingsService) mutate(ctx context.Context, guildID string, apply func(*domain.ReminderSettings) error) (domain.ReminderSettings, error) {
	settings, err := s.GetSettings(ctx, guildID)
	if err != nil {
		return domain.ReminderSettings{}, err
	}
	if err := apply(&settings); err != nil {
		return domain.ReminderSettings{}, err
	}
	if err := s.settings.Save(ctx, &settings); err != nil {
		return domain.ReminderSettings{}, err
	}
	return settings, nil
}

// GetStaffPreference returns the staff member's reminder routing preference,
// defaulting to receive=true when unset.
func (s *SettingsService) GetStaffPreference(ctx context.Context, staffID string) (domain.StaffPreference, error) {
	pref, err := s.staff.GetPreference(ctx, staffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DefaultStaffPreference(staffID), nil
		}
		return domain.StaffPreference{}, err
	}
	return *pref, nil
}

// SetStaffPreference stores the staff member's reminder routing preference.
func (s *SettingsService) SetStaffPreference(ctx context.Context, staffID string, receiveReminders bool) error {
	return s.staff.SetPreference(ctx, staffID, receiveReminders)
}

// SetServiceHoursEnabled flips the guild-level hours gate.
func (s *SettingsService) SetServiceHoursEnabled(ctx context.Context, guildID string, enabled bool) error {
	return s.hours.SaveSettings(ctx, &domain.ServiceHoursSettings{GuildID: guildID, Enabled: enabled})
}

// ListSchedules returns all service-hours schedules for a guild.
func (s *SettingsService) ListSchedules(ctx context.Context, guildID string) ([]domain.ServiceHoursSchedule, error) {
	return s.hours.ListSchedules(ctx, guildID)
}

// AddSchedule validates and stores a service-hours cron schedule.
func (s *SettingsService) AddSchedule(ctx context.Context, guildID, cronExpression, description string) (*domain.ServiceHoursSchedule, error) {
	cronExpression = strings.TrimSpace(cronExpression)
	if !s.cron.IsValid(cronExpression) {
		return nil, apperrors.NewValidationError("invalid cron expression",
			map[string]any{"cron_expression": cronExpression})
	}

	schedule := &domain.ServiceHoursSchedule{
		GuildID:        guildID,
		CronExpression: cronExpression,
		Description:    description,
		Enabled:        true,
	}
	if err := s.hours.AddSchedule(ctx, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

// RemoveSchedule deletes a service-hours schedule.
func (s *SettingsService) RemoveSchedule(ctx context.Context, guildID, scheduleID string) error {
	if err := s.hours.DeleteSchedule(ctx, guildID, scheduleID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("schedule", map[string]any{"schedule_id": scheduleID})
		}
		return err
	}
	return nil
}

// ListHolidays returns all holiday entries for a guild.
func (s *SettingsService) ListHolidays(ctx context.Context, guildID string) ([]domain.Holiday, error) {
	return s.holidays.List(ctx, guildID)
}

// AddHoliday validates and stores a holiday entry: either a fixed
// [start, end) range or a recurring cron expression.
func (s *SettingsService) AddHoliday(ctx context.Context, holiday *domain.Holiday) (*domain.Holiday, error) {
	if strings.TrimSpace(holiday.Name) == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	switch {
	case holiday.Recurring():
		if holiday.StartDate != nil || holiday.EndDate != nil {
			return nil, apperrors.NewValidationError("holiday takes a cron expression or a date range, not both", nil)
		}
		if !s.cron.IsValid(*holiday.CronExpression) {
			return nil, apperrors.NewValidationError("invalid cron expression",
				map[string]any{"cron_expression": *holiday.CronExpression})
		}
	case holiday.StartDate != nil && holiday.EndDate != nil:
		if !holiday.EndDate.After(*holiday.StartDate) {
			return nil, apperrors.NewValidationError("end_date must be after start_date", nil)
		}
	default:
		return nil, apperrors.NewValidationError("holiday requires a cron expression or a date range", nil)
	}

	holiday.Enabled = true
	if err := s.holidays.Add(ctx, holiday); err != nil {
		return nil, err
	}
	return holiday, nil
}

// RemoveHoliday deletes a holiday entry.
func (s *SettingsService) RemoveHoliday(ctx context.Context, guildID, holidayID string) error {
	if err := s.holidays.Delete(ctx, guildID, holidayID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("holiday", map[string]any{"holiday_id": holidayID})
		}
		return err
	}
	return nil
}

// Debug returns the guild's effective settings plus the size of the notify
// target, for operator introspection.
func (s *SettingsService) Debug(ctx context.Context, guildID string) (DebugStatus, error) {
	settings, err := s.GetSettings(ctx, guildID)
	if err != nil {
		return DebugStatus{}, err
	}

	schedules, err := s.hours.ListActiveSchedules(ctx, guildID)
	if err != nil {
		return DebugStatus{}, err
	}

	status := DebugStatus{Settings: settings, ScheduleCount: len(schedules)}

	if settings.HasNotifyTarget() {
		members, err := s.notifier.ResolveRoleMembers(ctx, *settings.ReminderRoleRef)
		if err != nil {
			return DebugStatus{}, apperrors.NewDeliveryError(err)
		}
		status.NotifyTargetMembers = len(members)
	}
	return status, nil
}
