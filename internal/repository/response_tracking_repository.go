package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/reminder-service/internal/domain"
)

// ResponseTrackingRepository persists per-ticket response state. All writes
// are last-write-wins; the scheduler's single-flight loop is the only thing
// standing between the read-decide-write sequence and lost updates, so no
// optimistic concurrency check exists here.
type ResponseTrackingRepository interface {
	Get(ctx context.Context, ticketID string) (*domain.ResponseTracking, error)
	RecordCustomerMessage(ctx context.Context, ticketID string, at time.Time) error
	RecordStaffResponse(ctx context.Context, ticketID string, at time.Time) error
	MarkNoResponseNeeded(ctx context.Context, ticketID string) error
	SaveReminderState(ctx context.Context, tracking *domain.ResponseTracking) error
	Delete(ctx context.Context, ticketID string) error
}

type responseTrackingRepository struct {
	pool *pgxpool.Pool
}

// NewResponseTrackingRepository instantiates repository.
func NewResponseTrackingRepository(pool *pgxpool.Pool) ResponseTrackingRepository {
	return &responseTrackingRepository{pool: pool}
}

func (r *responseTrackingRepository) Get(ctx context.Context, ticketID string) (*domain.ResponseTracking, error) {
	const query = `
        SELECT ticket_id, last_customer_message_at, last_staff_response_at, reminder_sent, reminder_sent_at,
               reminder_count, last_reminder_at, no_response_needed, last_reminder_message_ref, created_at, updated_at
        FROM response_tracking WHERE ticket_id=$1`
	var t domain.ResponseTracking
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(
		&t.TicketID,
		&t.LastCustomerMessageAt,
		&t.LastStaffResponseAt,
		&t.ReminderSent,
		&t.ReminderSentAt,
		&t.ReminderCount,
		&t.LastReminderAt,
		&t.NoResponseNeeded,
		&t.LastReminderMessageRef,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

// RecordCustomerMessage upserts the row, stamping the customer message and
// clearing any manual no-response override. Reminder fields are untouched.
func (r *responseTrackingRepository) RecordCustomerMessage(ctx context.Context, ticketID string, at time.Time) error {
	const query = `
        INSERT INTO response_tracking (ticket_id, last_customer_message_at, no_response_needed)
        VALUES ($1, $2, FALSE)
        ON CONFLICT (ticket_id) DO UPDATE SET
            last_customer_message_at=EXCLUDED.last_customer_message_at,
            no_response_needed=FALSE,
            updated_at=NOW()`
	_, err := r.pool.Exec(ctx, query, ticketID, at)
	return err
}

// RecordStaffResponse upserts the row, stamping the staff response and
// resetting the reminder escalation state. lastCustomerMessageAt is left
// alone: it records history, not eligibility alone.
func (r *responseTrackingRepository) RecordStaffResponse(ctx context.Context, ticketID string, at time.Time) error {
	const query = `
        INSERT INTO response_tracking (ticket_id, last_staff_response_at)
        VALUES ($1, $2)
        ON CONFLICT (ticket_id) DO UPDATE SET
            last_staff_response_at=EXCLUDED.last_staff_response_at,
            reminder_sent=FALSE,
            reminder_count=0,
            last_reminder_at=NULL,
            updated_at=NOW()`
	_, err := r.pool.Exec(ctx, query, ticketID, at)
	return err
}

// MarkNoResponseNeeded suppresses future reminders until the next customer
// message arrives.
func (r *responseTrackingRepository) MarkNoResponseNeeded(ctx context.Context, ticketID string) error {
	const query = `
        INSERT INTO response_tracking (ticket_id, no_response_needed)
        VALUES ($1, TRUE)
        ON CONFLICT (ticket_id) DO UPDATE SET
            no_response_needed=TRUE,
            reminder_sent=FALSE,
            reminder_sent_at=NULL,
            updated_at=NOW()`
	_, err := r.pool.Exec(ctx, query, ticketID)
	return err
}

// SaveReminderState persists the post-reminder state computed by the policy.
func (r *responseTrackingRepository) SaveReminderState(ctx context.Context, tracking *domain.ResponseTracking) error {
	const query = `
        UPDATE response_tracking SET
            reminder_sent=$1,
            reminder_sent_at=$2,
            reminder_count=$3,
            last_reminder_at=$4,
            last_reminder_message_ref=$5,
            updated_at=NOW()
        WHERE ticket_id=$6`
	_, err := r.pool.Exec(ctx, query,
		tracking.ReminderSent,
		tracking.ReminderSentAt,
		tracking.ReminderCount,
		tracking.LastReminderAt,
		tracking.LastReminderMessageRef,
		tracking.TicketID,
	)
	return err
}

func (r *responseTrackingRepository) Delete(ctx context.Context, ticketID string) error {
	const query = `DELETE FROM response_tracking WHERE ticket_id=$1`
	_, err := r.pool.Exec(ctx, query, ticketID)
	return err
}
