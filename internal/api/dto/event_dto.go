package dto

import "time"

// OpenTicketRequest reports a ticket the chat layer just opened.
type OpenTicketRequest struct {
	TicketID        string  `json:"ticket_id"`
	GuildID         string  `json:"guild_id"`
	ChannelID       string  `json:"channel_id"`
	AssignedStaffID *string `json:"assigned_staff_id,omitempty"`
	HumanHandled    bool    `json:"human_handled"`
}

// CustomerMessageRequest reports an observed customer message.
type CustomerMessageRequest struct {
	AuthorRef  string     `json:"author_ref"`
	OccurredAt *time.Time `json:"occurred_at,omitempty"`
}

// StaffResponseRequest reports an observed staff reply.
type StaffResponseRequest struct {
	StaffID    string     `json:"staff_id"`
	OccurredAt *time.Time `json:"occurred_at,omitempty"`
}

// HumanHandoffRequest marks the human takeover point.
type HumanHandoffRequest struct {
	AssignedStaffID *string `json:"assigned_staff_id,omitempty"`
}

// CloseTicketRequest reports a closed ticket.
type CloseTicketRequest struct {
	ClosedBy *string `json:"closed_by,omitempty"`
}
