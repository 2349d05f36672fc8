package domain

import "time"

// ReminderMode governs how many times and how often staff are re-notified of
// an unanswered ticket.
type ReminderMode string

const (
	// ReminderModeOnce sends a single reminder per unanswered customer message.
	ReminderModeOnce ReminderMode = "once"
	// ReminderModeContinuous repeats reminders on an interval until staff reply.
	ReminderModeContinuous ReminderMode = "continuous"
	// ReminderModeLimited repeats reminders up to a configured cap.
	ReminderModeLimited ReminderMode = "limited"
)

// Valid reports whether the mode is one of the supported values.
func (m ReminderMode) Valid() bool {
	switch m {
	case ReminderModeOnce, ReminderModeContinuous, ReminderModeLimited:
		return true
	}
	return false
}

// Repeating reports whether the mode can send more than one reminder for the
// same unanswered message.
func (m ReminderMode) Repeating() bool {
	return m == ReminderModeContinuous || m == ReminderModeLimited
}

// Default reminder settings applied when a guild has no stored row.
const (
	DefaultReminderTimeoutSeconds  = 600
	DefaultReminderIntervalSeconds = 60
	DefaultReminderMaxCount        = 3
)

// ReminderSettings is the guild-scoped reminder policy.
type ReminderSettings struct {
	GuildID                 string
	Enabled                 bool
	ReminderTimeoutSeconds  int
	ReminderRoleRef         *string
	ReminderMode            ReminderMode
	ReminderIntervalSeconds int
	ReminderMaxCount        int
	UpdatedAt               time.Time
}

// DefaultReminderSettings returns the settings used for a guild without a
// stored row: disabled, 600s timeout, no notify target, mode once, 60s
// interval, max count 3.
func DefaultReminderSettings(guildID string) ReminderSettings {
	return ReminderSettings{
		GuildID:                 guildID,
		Enabled:                 false,
		ReminderTimeoutSeconds:  DefaultReminderTimeoutSeconds,
		ReminderMode:            ReminderModeOnce,
		ReminderIntervalSeconds: DefaultReminderIntervalSeconds,
		ReminderMaxCount:        DefaultReminderMaxCount,
	}
}

// HasNotifyTarget reports whether a notify role is configured.
func (s ReminderSettings) HasNotifyTarget() bool {
	return s.ReminderRoleRef != nil && *s.ReminderRoleRef != ""
}

// Timeout returns the configured reminder timeout as a duration.
func (s ReminderSettings) Timeout() time.Duration {
	return time.Duration(s.ReminderTimeoutSeconds) * time.Second
}

// Interval returns the configured repeat interval as a duration.
func (s ReminderSettings) Interval() time.Duration {
	return time.Duration(s.ReminderIntervalSeconds) * time.Second
}
