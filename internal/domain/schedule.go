package domain

import "time"

// ServiceHoursSettings is the guild-level switch for the service-hours gate.
// A guild without a stored row is treated as ungated.
type ServiceHoursSettings struct {
	GuildID   string
	Enabled   bool
	UpdatedAt time.Time
}

// ServiceHoursSchedule is one cron-described window during which reminder
// notifications are permitted to fire.
type ServiceHoursSchedule struct {
	ID             string
	GuildID        string
	CronExpression string
	Description    string
	Enabled        bool
	CreatedAt      time.Time
}

// Holiday is a guild-scoped day (or range) on which reminders are suppressed.
// Either a fixed [StartDate, EndDate) range or a recurring cron expression is
// set, never both.
type Holiday struct {
	ID             string
	GuildID        string
	Name           string
	StartDate      *time.Time
	EndDate        *time.Time
	CronExpression *string
	Enabled        bool
	CreatedAt      time.Time
}

// Recurring reports whether the holiday is cron-described rather than a fixed
// date range.
func (h Holiday) Recurring() bool {
	return h.CronExpression != nil && *h.CronExpression != ""
}
