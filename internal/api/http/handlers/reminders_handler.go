package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/reminder-service/internal/api/dto"
	"github.com/spec-kit/reminder-service/internal/domain"
	"github.com/spec-kit/reminder-service/internal/observability"
	"github.com/spec-kit/reminder-service/internal/service"
	apperrors "github.com/spec-kit/reminder-service/pkg/util"
)

// RemindersHandler exposes the guild reminder administration surface.
type RemindersHandler struct {
	settings *service.SettingsService
	metrics  *observability.Metrics
}

// NewRemindersHandler returns a new handler instance.
func NewRemindersHandler(settings *service.SettingsService, metrics *observability.Metrics) *RemindersHandler {
	return &RemindersHandler{settings: settings, metrics: metrics}
}

// GetSettings returns effective settings for the guild.
func (h *RemindersHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.settings.GetSettings(c.UserContext(), c.Params("guildID"))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(toSettingsResponse(settings))
}

// SetEnabled flips the reminder feature.
func (h *RemindersHandler) SetEnabled(c *fiber.Ctx) error {
	var req dto.SetEnabledRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	settings, err := h.settings.SetEnabled(c.UserContext(), c.Params("guildID"), req.Enabled)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(toSettingsResponse(settings))
}

// SetRole sets the notify target role.
func (h *RemindersHandler) SetRole(c *fiber.Ctx) error {
	var req dto.SetRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	settings, err := h.settings.SetNotifyRole(c.UserContext(), c.Params("guildID"), req.RoleRef)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(toSettingsResponse(settings))
}

// SetTimeout sets the first-reminder timeout in minutes.
func (h *RemindersHandler) SetTimeout(c *fiber.Ctx) error {
	var req dto.SetTimeoutRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	settings, err := h.settings.SetTimeoutMinutes(c.UserContext(), c.Params("guildID"), req.TimeoutMinutes)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(toSettingsResponse(settings))
}

// SetMode sets the reminder mode.
func (h *RemindersHandler) SetMode(c *fiber.Ctx) error {
	var req dto.SetModeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	settings, err := h.settings.SetMode(c.UserContext(), c.Params("guildID"), domain.ReminderMode(req.Mode))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(toSettingsResponse(settings))
}

// SetInterval sets the repeat interval in seconds.
func (h *RemindersHandler) SetInterval(c *fiber.Ctx) error {
	var req dto.SetIntervalRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	settings, err := h.settings.SetIntervalSeconds(c.UserContext(), c.Params("guildID"), req.IntervalSeconds)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(toSettingsResponse(settings))
}

// SetMaxCount sets the limited-mode cap.
func (h *RemindersHandler) SetMaxCount(c *fiber.Ctx) error {
	var req dto.SetMaxCountRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	settings, err := h.settings.SetMaxCount(c.UserContext(), c.Params("guildID"), req.MaxCount)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(toSettingsResponse(settings))
}

// Debug dumps settings, schedule count, notify-target size and scheduler
// counters.
func (h *RemindersHandler) Debug(c *fiber.Ctx) error {
	status, err := h.settings.Debug(c.UserContext(), c.Params("guildID"))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(dto.DebugResponse{
		Settings:            toSettingsResponse(status.Settings),
		ScheduleCount:       status.ScheduleCount,
		NotifyTargetMembers: status.NotifyTargetMembers,
		Scheduler:           h.metrics.SchedulerStats(),
	})
}

// GetStaffPreference returns one staff member's reminder routing preference.
func (h *RemindersHandler) GetStaffPreference(c *fiber.Ctx) error {
	pref, err := h.settings.GetStaffPreference(c.UserContext(), c.Params("staffID"))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(dto.StaffPreferenceResponse{StaffID: pref.StaffID, ReceiveReminders: pref.ReceiveReminders})
}

// SetStaffPreference stores one staff member's reminder routing preference.
func (h *RemindersHandler) SetStaffPreference(c *fiber.Ctx) error {
	var req dto.StaffPreferenceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	staffID := c.Params("staffID")
	if err := h.settings.SetStaffPreference(c.UserContext(), staffID, req.ReceiveReminders); err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(dto.StaffPreferenceResponse{StaffID: staffID, ReceiveReminders: req.ReceiveReminders})
}

// SetServiceHoursEnabled flips the guild-level hours gate.
func (h *RemindersHandler) SetServiceHoursEnabled(c *fiber.Ctx) error {
	var req dto.SetServiceHoursEnabledRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if err := h.settings.SetServiceHoursEnabled(c.UserContext(), c.Params("guildID"), req.Enabled); err != nil {
		return apperrors.MapError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListSchedules returns all service-hours schedules.
func (h *RemindersHandler) ListSchedules(c *fiber.Ctx) error {
	schedules, err := h.settings.ListSchedules(c.UserContext(), c.Params("guildID"))
	if err != nil {
		return apperrors.MapError(err)
	}
	out := make([]dto.ScheduleResponse, 0, len(schedules))
	for _, s := range schedules {
		out = append(out, dto.ScheduleResponse{
			ID:             s.ID,
			CronExpression: s.CronExpression,
			Description:    s.Description,
			Enabled:        s.Enabled,
		})
	}
	return c.JSON(out)
}

// AddSchedule stores a new service-hours schedule.
func (h *RemindersHandler) AddSchedule(c *fiber.Ctx) error {
	var req dto.AddScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	schedule, err := h.settings.AddSchedule(c.UserContext(), c.Params("guildID"), req.CronExpression, req.Description)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ScheduleResponse{
		ID:             schedule.ID,
		CronExpression: schedule.CronExpression,
		Description:    schedule.Description,
		Enabled:        schedule.Enabled,
	})
}

// RemoveSchedule deletes a service-hours schedule.
func (h *RemindersHandler) RemoveSchedule(c *fiber.Ctx) error {
	if err := h.settings.RemoveSchedule(c.UserContext(), c.Params("guildID"), c.Params("scheduleID")); err != nil {
		return apperrors.MapError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListHolidays returns all holiday entries.
func (h *RemindersHandler) ListHolidays(c *fiber.Ctx) error {
	holidays, err := h.settings.ListHolidays(c.UserContext(), c.Params("guildID"))
	if err != nil {
		return apperrors.MapError(err)
	}
	out := make([]dto.HolidayResponse, 0, len(holidays))
	for _, holiday := range holidays {
		out = append(out, toHolidayResponse(holiday))
	}
	return c.JSON(out)
}

// AddHoliday stores a new holiday entry.
func (h *RemindersHandler) AddHoliday(c *fiber.Ctx) error {
	var req dto.AddHolidayRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	holiday, err := h.settings.AddHoliday(c.UserContext(), &domain.Holiday{
		GuildID:        c.Params("guildID"),
		Name:           req.Name,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		CronExpression: req.CronExpression,
	})
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(toHolidayResponse(*holiday))
}

// RemoveHoliday deletes a holiday entry.
func (h *RemindersHandler) RemoveHoliday(c *fiber.Ctx) error {
	if err := h.settings.RemoveHoliday(c.UserContext(), c.Params("guildID"), c.Params("holidayID")); err != nil {
		return apperrors.MapError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func toSettingsResponse(settings domain.ReminderSettings) dto.SettingsResponse {
	return dto.SettingsResponse{
		GuildID:                 settings.GuildID,
		Enabled:                 settings.Enabled,
		ReminderTimeoutSeconds:  settings.ReminderTimeoutSeconds,
		ReminderRoleRef:         settings.ReminderRoleRef,
		ReminderMode:            string(settings.ReminderMode),
		ReminderIntervalSeconds: settings.ReminderIntervalSeconds,
		ReminderMaxCount:        settings.ReminderMaxCount,
	}
}

func toHolidayResponse(holiday domain.Holiday) dto.HolidayResponse {
	return dto.HolidayResponse{
		ID:             holiday.ID,
		Name:           holiday.Name,
		StartDate:      holiday.StartDate,
		EndDate:        holiday.EndDate,
		CronExpression: holiday.CronExpression,
		Enabled:        holiday.Enabled,
	}
}
