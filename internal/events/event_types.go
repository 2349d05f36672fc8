package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketOpened     EventType = "ticket_opened"
	EventCustomerMessage  EventType = "customer_message"
	EventStaffResponse    EventType = "staff_response"
	EventNoResponseNeeded EventType = "no_response_needed"
	EventHumanHandoff     EventType = "human_handoff"
	EventTicketClosed     EventType = "ticket_closed"
)

// Event represents a ticket lifecycle event observed by the ingest boundary.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	GuildID   string      `json:"guild_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// CustomerMessagePayload payload.
type CustomerMessagePayload struct {
	AuthorRef string `json:"author_ref"`
}

// StaffResponsePayload payload.
type StaffResponsePayload struct {
	StaffID string `json:"staff_id"`
}

// HumanHandoffPayload payload.
type HumanHandoffPayload struct {
	AssignedStaffID *string `json:"assigned_staff_id,omitempty"`
}

// TicketClosedPayload payload.
type TicketClosedPayload struct {
	ClosedBy *string `json:"closed_by,omitempty"`
}
