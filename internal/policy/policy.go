// Package policy holds the pure reminder eligibility decision. It operates
// only on values already fetched; nothing here touches storage or clocks.
package policy

import (
	"time"

	"github.com/spec-kit/reminder-service/internal/domain"
)

// Decision is the outcome of evaluating one tracking record. Next carries the
// post-reminder state to persist when Eligible; otherwise it echoes the input
// unchanged.
type Decision struct {
	Eligible bool
	Next     domain.ResponseTracking
}

// Evaluate decides whether a reminder is due for the tracking record under
// the guild's settings at the given instant.
//
// In every mode a reminder requires an unanswered customer message: a
// recorded customer message, no manual no-response override, and no staff
// response at or after it. A record that has never been reminded is always
// judged by the timeout rule, never the repeat-interval rule, even when both
// would pass.
func Evaluate(tracking domain.ResponseTracking, settings domain.ReminderSettings, now time.Time) Decision {
	skip := Decision{Eligible: false, Next: tracking}

	if tracking.NoResponseNeeded || !tracking.AwaitingStaff() {
		return skip
	}

	timeoutDue := !tracking.ReminderSent &&
		now.Sub(*tracking.LastCustomerMessageAt) >= settings.Timeout()
	repeatDue := tracking.ReminderSent &&
		tracking.LastReminderAt != nil &&
		now.Sub(*tracking.LastReminderAt) >= settings.Interval()

	switch settings.ReminderMode {
	case domain.ReminderModeOnce:
		if !timeoutDue {
			return skip
		}
		return Decision{Eligible: true, Next: firstReminderState(tracking, now)}

	case domain.ReminderModeContinuous, domain.ReminderModeLimited:
		if settings.ReminderMode == domain.ReminderModeLimited &&
			tracking.ReminderCount >= settings.ReminderMaxCount {
			return skip
		}
		if !tracking.ReminderSent {
			if !timeoutDue {
				return skip
			}
			return Decision{Eligible: true, Next: firstReminderState(tracking, now)}
		}
		if !repeatDue {
			return skip
		}
		return Decision{Eligible: true, Next: repeatReminderState(tracking, now)}
	}

	return skip
}

func firstReminderState(tracking domain.ResponseTracking, now time.Time) domain.ResponseTracking {
	at := now
	next := tracking
	next.ReminderSent = true
	next.ReminderSentAt = &at
	next.ReminderCount = 1
	next.LastReminderAt = &at
	return next
}

func repeatReminderState(tracking domain.ResponseTracking, now time.Time) domain.ResponseTracking {
	at := now
	next := tracking
	next.ReminderSent = true
	next.ReminderCount++
	next.LastReminderAt = &at
	return next
}
