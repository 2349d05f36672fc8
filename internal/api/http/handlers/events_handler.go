package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/reminder-service/internal/api/dto"
	"github.com/spec-kit/reminder-service/internal/service"
	apperrors "github.com/spec-kit/reminder-service/pkg/util"
)

// EventsHandler is the ingest boundary: the chat layer reports ticket
// lifecycle changes here.
type EventsHandler struct {
	tickets *service.TicketService
}

// NewEventsHandler returns a new handler instance.
func NewEventsHandler(tickets *service.TicketService) *EventsHandler {
	return &EventsHandler{tickets: tickets}
}

// OpenTicket registers a newly opened ticket.
func (h *EventsHandler) OpenTicket(c *fiber.Ctx) error {
	var req dto.OpenTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	ticket, err := h.tickets.OpenTicket(c.UserContext(), service.TicketOpenInput{
		TicketID:        req.TicketID,
		GuildID:         req.GuildID,
		ChannelID:       req.ChannelID,
		AssignedStaffID: req.AssignedStaffID,
		HumanHandled:    req.HumanHandled,
	})
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ticket_id": ticket.ID})
}

// CustomerMessage records an observed customer message.
func (h *EventsHandler) CustomerMessage(c *fiber.Ctx) error {
	var req dto.CustomerMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if err := h.tickets.RecordCustomerMessage(c.UserContext(), c.Params("ticketID"), req.AuthorRef, occurredAt(req.OccurredAt)); err != nil {
		return apperrors.MapError(err)
	}
	return c.SendStatus(fiber.StatusAccepted)
}

// StaffResponse records an observed staff reply.
func (h *EventsHandler) StaffResponse(c *fiber.Ctx) error {
	var req dto.StaffResponseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if err := h.tickets.RecordStaffResponse(c.UserContext(), c.Params("ticketID"), req.StaffID, occurredAt(req.OccurredAt)); err != nil {
		return apperrors.MapError(err)
	}
	return c.SendStatus(fiber.StatusAccepted)
}

// NoResponseNeeded applies the manual reminder override.
func (h *EventsHandler) NoResponseNeeded(c *fiber.Ctx) error {
	if err := h.tickets.MarkNoResponseNeeded(c.UserContext(), c.Params("ticketID")); err != nil {
		return apperrors.MapError(err)
	}
	return c.SendStatus(fiber.StatusAccepted)
}

// HumanHandoff marks the human takeover point.
func (h *EventsHandler) HumanHandoff(c *fiber.Ctx) error {
	var req dto.HumanHandoffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if err := h.tickets.MarkHumanHandled(c.UserContext(), c.Params("ticketID"), req.AssignedStaffID); err != nil {
		return apperrors.MapError(err)
	}
	return c.SendStatus(fiber.StatusAccepted)
}

// CloseTicket records a ticket close.
func (h *EventsHandler) CloseTicket(c *fiber.Ctx) error {
	var req dto.CloseTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if err := h.tickets.CloseTicket(c.UserContext(), c.Params("ticketID"), req.ClosedBy); err != nil {
		return apperrors.MapError(err)
	}
	return c.SendStatus(fiber.StatusAccepted)
}

func occurredAt(at *time.Time) time.Time {
	if at != nil {
		return *at
	}
	return time.Now()
}
