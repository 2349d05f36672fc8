package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen         TicketStatus = "OPEN"
	TicketStatusWaitingStaff TicketStatus = "WAITING_STAFF"
	TicketStatusClosed       TicketStatus = "CLOSED"
)

// ReminderEligible reports whether a ticket in this status can still receive
// response reminders.
func (s TicketStatus) ReminderEligible() bool {
	return s == TicketStatusOpen || s == TicketStatusWaitingStaff
}

// Ticket is a support conversation as seen by the reminder subsystem. The
// ticket layer owns the full record; only the fields needed for reminder
// correlation are carried here.
type Ticket struct {
	ID              string
	GuildID         string
	ChannelID       string
	Status          TicketStatus
	HumanHandled    bool
	AssignedStaffID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
