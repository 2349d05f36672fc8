package domain

import "time"

// ResponseTracking records the response state of one open ticket. A row is
// created lazily on the first customer message after human handoff and
// deleted when the ticket closes; its absence means no tracking is needed.
type ResponseTracking struct {
	TicketID               string
	LastCustomerMessageAt  *time.Time
	LastStaffResponseAt    *time.Time
	ReminderSent           bool
	ReminderSentAt         *time.Time
	ReminderCount          int
	LastReminderAt         *time.Time
	NoResponseNeeded       bool
	LastReminderMessageRef *string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// AwaitingStaff reports whether the most recent relevant event is an
// unanswered customer message.
func (t ResponseTracking) AwaitingStaff() bool {
	if t.LastCustomerMessageAt == nil {
		return false
	}
	if t.LastStaffResponseAt == nil {
		return true
	}
	return t.LastCustomerMessageAt.After(*t.LastStaffResponseAt)
}
