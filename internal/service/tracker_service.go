package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/reminder-service/internal/domain"
	"github.com/spec-kit/reminder-service/internal/events"
	"github.com/spec-kit/reminder-service/internal/repository"
)

// TrackerService owns per-ticket response-tracking state. It reacts to
// ticket lifecycle events and exposes the same operations directly for the
// scheduler and admin layers.
type TrackerService struct {
	tracking   repository.ResponseTrackingRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TrackerDependencies bundles collaborators for the tracker service.
type TrackerDependencies struct {
	TrackingRepo repository.ResponseTrackingRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewTrackerService constructs the service.
func NewTrackerService(deps TrackerDependencies) *TrackerService {
	return &TrackerService{
		tracking:   deps.TrackingRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// RegisterHandlers subscribes the tracker to ticket lifecycle events.
func (s *TrackerService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Subscribe(events.EventCustomerMessage, s.handleCustomerMessage)
	s.dispatcher.Subscribe(events.EventStaffResponse, s.handleStaffResponse)
	s.dispatcher.Subscribe(events.EventNoResponseNeeded, s.handleNoResponseNeeded)
	s.dispatcher.Subscribe(events.EventTicketClosed, s.handleTicketClosed)
}

// RecordCustomerMessage upserts the tracking row for a new customer message.
// Reminder escalation fields are deliberately untouched so an in-progress
// escalation keeps its history.
func (s *TrackerService) RecordCustomerMessage(ctx context.Context, ticketID string, at time.Time) error {
	return s.tracking.RecordCustomerMessage(ctx, ticketID, at)
}

// RecordStaffResponse upserts the tracking row for a staff reply and resets
// the reminder escalation state.
func (s *TrackerService) RecordStaffResponse(ctx context.Context, ticketID string, at time.Time) error {
	return s.tracking.RecordStaffResponse(ctx, ticketID, at)
}

// MarkNoResponseNeeded suppresses reminders for the ticket until the next
// customer message.
func (s *TrackerService) MarkNoResponseNeeded(ctx context.Context, ticketID string) error {
	return s.tracking.MarkNoResponseNeeded(ctx, ticketID)
}

// Get returns the tracking row, or nil when none exists.
func (s *TrackerService) Get(ctx context.Context, ticketID string) (*domain.ResponseTracking, error) {
	tracking, err := s.tracking.Get(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return tracking, nil
}

// Clear deletes the tracking row on ticket close.
func (s *TrackerService) Clear(ctx context.Context, ticketID string) error {
	return s.tracking.Delete(ctx, ticketID)
}

func (s *TrackerService) handleCustomerMessage(ctx context.Context, event events.Event) error {
	s.logger.Debug("customer message observed", zap.String("ticket_id", event.TicketID))
	return s.RecordCustomerMessage(ctx, event.TicketID, event.Timestamp)
}

func (s *TrackerService) handleStaffResponse(ctx context.Context, event events.Event) error {
	s.logger.Debug("staff response observed", zap.String("ticket_id", event.TicketID))
	return s.RecordStaffResponse(ctx, event.TicketID, event.Timestamp)
}

func (s *TrackerService) handleNoResponseNeeded(ctx context.Context, event events.Event) error {
	s.logger.Debug("no-response override set", zap.String("ticket_id", event.TicketID))
	return s.MarkNoResponseNeeded(ctx, event.TicketID)
}

func (s *TrackerService) handleTicketClosed(ctx context.Context, event events.Event) error {
	s.logger.Debug("ticket closed; clearing tracking", zap.String("ticket_id", event.TicketID))
	return s.Clear(ctx, event.TicketID)
}
