package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/reminder-service/internal/domain"
	"github.com/spec-kit/reminder-service/internal/events"
	"github.com/spec-kit/reminder-service/internal/repository"
	apperrors "github.com/spec-kit/reminder-service/pkg/util"
)

// TicketService is the ingest boundary through which the chat layer reports
// ticket lifecycle changes. It keeps the local ticket projection current and
// publishes events the tracker consumes.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
}

// TicketOpenInput describes a newly observed ticket.
type TicketOpenInput struct {
	TicketID        string
	GuildID         string
	ChannelID       string
	AssignedStaffID *string
	HumanHandled    bool
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{tickets: deps.TicketRepo, dispatcher: deps.Dispatcher}
}

// OpenTicket records a ticket the chat layer just opened.
func (s *TicketService) OpenTicket(ctx context.Context, input TicketOpenInput) (*domain.Ticket, error) {
	if strings.TrimSpace(input.TicketID) == "" || strings.TrimSpace(input.GuildID) == "" {
		return nil, apperrors.NewValidationError("ticket_id and guild_id are required", nil)
	}

	ticket := &domain.Ticket{
		ID:              input.TicketID,
		GuildID:         input.GuildID,
		ChannelID:       input.ChannelID,
		Status:          domain.TicketStatusOpen,
		HumanHandled:    input.HumanHandled,
		AssignedStaffID: input.AssignedStaffID,
	}
	if err := s.tickets.Upsert(ctx, ticket); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventTicketOpened, ticket.ID, ticket.GuildID, time.Now(), nil)
	return ticket, nil
}

// RecordCustomerMessage reports a customer message on an open ticket.
func (s *TicketService) RecordCustomerMessage(ctx context.Context, ticketID, authorRef string, at time.Time) error {
	ticket, err := s.getOpen(ctx, ticketID)
	if err != nil {
		return err
	}

	// Tracking only starts once a human has taken over from the automated
	// first-response layer.
	if !ticket.HumanHandled {
		return nil
	}

	return s.publish(ctx, events.EventCustomerMessage, ticket.ID, ticket.GuildID, at,
		events.CustomerMessagePayload{AuthorRef: authorRef})
}

// RecordStaffResponse reports a staff reply on an open ticket.
func (s *TicketService) RecordStaffResponse(ctx context.Context, ticketID, staffID string, at time.Time) error {
	ticket, err := s.getOpen(ctx, ticketID)
	if err != nil {
		return err
	}
	return s.publish(ctx, events.EventStaffResponse, ticket.ID, ticket.GuildID, at,
		events.StaffResponsePayload{StaffID: staffID})
}

// MarkNoResponseNeeded applies the manual staff override suppressing
// reminders until the customer writes again.
func (s *TicketService) MarkNoResponseNeeded(ctx context.Context, ticketID string) error {
	ticket, err := s.getOpen(ctx, ticketID)
	if err != nil {
		return err
	}
	return s.publish(ctx, events.EventNoResponseNeeded, ticket.ID, ticket.GuildID, time.Now(), nil)
}

// MarkHumanHandled records the human handoff point, optionally assigning
// staff.
func (s *TicketService) MarkHumanHandled(ctx context.Context, ticketID string, assignedStaffID *string) error {
	ticket, err := s.getOpen(ctx, ticketID)
	if err != nil {
		return err
	}
	if err := s.tickets.SetHumanHandled(ctx, ticketID, assignedStaffID); err != nil {
		return err
	}
	return s.publish(ctx, events.EventHumanHandoff, ticket.ID, ticket.GuildID, time.Now(),
		events.HumanHandoffPayload{AssignedStaffID: assignedStaffID})
}

// CloseTicket marks the ticket closed; the tracker drops its state in
// response to the published event.
func (s *TicketService) CloseTicket(ctx context.Context, ticketID string, closedBy *string) error {
	ticket, err := s.get(ctx, ticketID)
	if err != nil {
		return err
	}
	if err := s.tickets.SetStatus(ctx, ticketID, domain.TicketStatusClosed); err != nil {
		return err
	}
	return s.publish(ctx, events.EventTicketClosed, ticket.ID, ticket.GuildID, time.Now(),
		events.TicketClosedPayload{ClosedBy: closedBy})
}

func (s *TicketService) get(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, err
	}
	return ticket, nil
}

func (s *TicketService) getOpen(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.get(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !ticket.Status.ReminderEligible() {
		return nil, apperrors.NewValidationError("ticket is closed", map[string]any{"ticket_id": ticketID})
	}
	return ticket, nil
}

func (s *TicketService) publish(ctx context.Context, eventType events.EventType, ticketID, guildID string, at time.Time, payload interface{}) error {
	if s.dispatcher == nil {
		return nil
	}
	return s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		GuildID:   guildID,
		Timestamp: at,
		Payload:   payload,
	})
}
