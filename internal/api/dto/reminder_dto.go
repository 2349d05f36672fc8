package dto

import "time"

// SetEnabledRequest payload.
type SetEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

// SetRoleRequest payload.
type SetRoleRequest struct {
	RoleRef string `json:"role_ref"`
}

// SetTimeoutRequest payload; minutes per the product UI.
type SetTimeoutRequest struct {
	TimeoutMinutes int `json:"timeout_minutes"`
}

// SetModeRequest payload.
type SetModeRequest struct {
	Mode string `json:"mode"`
}

// SetIntervalRequest payload.
type SetIntervalRequest struct {
	IntervalSeconds int `json:"interval_seconds"`
}

// SetMaxCountRequest payload.
type SetMaxCountRequest struct {
	MaxCount int `json:"max_count"`
}

// SettingsResponse mirrors the persisted guild configuration shape.
type SettingsResponse struct {
	GuildID                 string  `json:"guild_id"`
	Enabled                 bool    `json:"enabled"`
	ReminderTimeoutSeconds  int     `json:"reminder_timeout_seconds"`
	ReminderRoleRef         *string `json:"reminder_role_ref"`
	ReminderMode            string  `json:"reminder_mode"`
	ReminderIntervalSeconds int     `json:"reminder_interval_seconds"`
	ReminderMaxCount        int     `json:"reminder_max_count"`
}

// DebugResponse is the operator introspection dump.
type DebugResponse struct {
	Settings            SettingsResponse `json:"settings"`
	ScheduleCount       int              `json:"schedule_count"`
	NotifyTargetMembers int              `json:"notify_target_members"`
	Scheduler           any              `json:"scheduler"`
}

// StaffPreferenceRequest payload.
type StaffPreferenceRequest struct {
	ReceiveReminders bool `json:"receive_reminders"`
}

// StaffPreferenceResponse payload.
type StaffPreferenceResponse struct {
	StaffID          string `json:"staff_id"`
	ReceiveReminders bool   `json:"receive_reminders"`
}

// AddScheduleRequest payload.
type AddScheduleRequest struct {
	CronExpression string `json:"cron_expression"`
	Description    string `json:"description"`
}

// ScheduleResponse payload.
type ScheduleResponse struct {
	ID             string `json:"id"`
	CronExpression string `json:"cron_expression"`
	Description    string `json:"description"`
	Enabled        bool   `json:"enabled"`
}

// SetServiceHoursEnabledRequest payload.
type SetServiceHoursEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

// AddHolidayRequest payload; either a cron expression or a date range.
type AddHolidayRequest struct {
	Name           string     `json:"name"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	CronExpression *string    `json:"cron_expression,omitempty"`
}

// HolidayResponse payload.
type HolidayResponse struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	CronExpression *string    `json:"cron_expression,omitempty"`
	Enabled        bool       `json:"enabled"`
}
