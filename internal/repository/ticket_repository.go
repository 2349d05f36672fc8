package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/reminder-service/internal/domain"
)

// ReminderCandidate pairs a ticket with its response-tracking row for
// scheduler evaluation.
type ReminderCandidate struct {
	Ticket   domain.Ticket
	Tracking domain.ResponseTracking
}

// TicketRepository encapsulates the slice of ticket persistence the reminder
// subsystem needs.
type TicketRepository interface {
	Upsert(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	SetStatus(ctx context.Context, id string, status domain.TicketStatus) error
	SetHumanHandled(ctx context.Context, id string, assignedStaffID *string) error
	// ListReminderCandidates returns open or waiting tickets that have been
	// human handled and carry a tracking row. Reminder eligibility itself is
	// decided in application code, never in the query.
	ListReminderCandidates(ctx context.Context, guildID string) ([]ReminderCandidate, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Upsert(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (id, guild_id, channel_id, status, human_handled, assigned_staff_id)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (id) DO UPDATE SET
            guild_id=EXCLUDED.guild_id,
            channel_id=EXCLUDED.channel_id,
            status=EXCLUDED.status,
            human_handled=EXCLUDED.human_handled,
            assigned_staff_id=EXCLUDED.assigned_staff_id,
            updated_at=NOW()
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.ID,
		ticket.GuildID,
		ticket.ChannelID,
		ticket.Status,
		ticket.HumanHandled,
		ticket.AssignedStaffID,
	).Scan(&ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `
        SELECT id, guild_id, channel_id, status, human_handled, assigned_staff_id, created_at, updated_at
        FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.GuildID,
		&ticket.ChannelID,
		&ticket.Status,
		&ticket.HumanHandled,
		&ticket.AssignedStaffID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) SetStatus(ctx context.Context, id string, status domain.TicketStatus) error {
	const query = `UPDATE tickets SET status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) SetHumanHandled(ctx context.Context, id string, assignedStaffID *string) error {
	const query = `
        UPDATE tickets SET human_handled=TRUE, assigned_staff_id=COALESCE($1, assigned_staff_id), updated_at=NOW()
        WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, assignedStaffID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) ListReminderCandidates(ctx context.Context, guildID string) ([]ReminderCandidate, error) {
	const query = `
        SELECT t.id, t.guild_id, t.channel_id, t.status, t.human_handled, t.assigned_staff_id, t.created_at, t.updated_at,
               rt.ticket_id, rt.last_customer_message_at, rt.last_staff_response_at, rt.reminder_sent, rt.reminder_sent_at,
               rt.reminder_count, rt.last_reminder_at, rt.no_response_needed, rt.last_reminder_message_ref,
               rt.created_at, rt.updated_at
        FROM tickets t
        JOIN response_tracking rt ON rt.ticket_id = t.id
        WHERE t.guild_id=$1
          AND t.status IN ('OPEN','WAITING_STAFF')
          AND t.human_handled
        ORDER BY rt.last_customer_message_at NULLS LAST`
	rows, err := r.pool.Query(ctx, query, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []ReminderCandidate
	for rows.Next() {
		var c ReminderCandidate
		if err := rows.Scan(
			&c.Ticket.ID,
			&c.Ticket.GuildID,
			&c.Ticket.ChannelID,
			&c.Ticket.Status,
			&c.Ticket.HumanHandled,
			&c.Ticket.AssignedStaffID,
			&c.Ticket.CreatedAt,
			&c.Ticket.UpdatedAt,
			&c.Tracking.TicketID,
			&c.Tracking.LastCustomerMessageAt,
			&c.Tracking.LastStaffResponseAt,
			&c.Tracking.ReminderSent,
			&c.Tracking.ReminderSentAt,
			&c.Tracking.ReminderCount,
			&c.Tracking.LastReminderAt,
			&c.Tracking.NoResponseNeeded,
			&c.Tracking.LastReminderMessageRef,
			&c.Tracking.CreatedAt,
			&c.Tracking.UpdatedAt,
		); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}
