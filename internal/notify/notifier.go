// Package notify defines the outbound notification boundary. Channel, role
// and message identifiers are opaque references owned by the chat gateway;
// nothing here knows what platform sits behind them.
package notify

import "context"

// Notifier delivers staff reminders through the chat gateway.
type Notifier interface {
	// SendReminder posts a reminder into the ticket channel addressing
	// mentionRef. escalationCount is zero for single-shot reminders and the
	// running count otherwise. Returns an opaque message reference usable for
	// later suppression.
	SendReminder(ctx context.Context, channelRef, mentionRef, text string, escalationCount int) (string, error)
	// SuppressControls clears the action controls on a previously sent
	// reminder so stale buttons cannot be pressed.
	SuppressControls(ctx context.Context, messageRef string) error
	// ResolveRoleMembers expands a role reference into member references.
	ResolveRoleMembers(ctx context.Context, roleRef string) ([]string, error)
}
