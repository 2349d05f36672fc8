package domain

import "time"

// StaffRole enumerates internal operator roles.
type StaffRole string

const (
	StaffRoleAgent StaffRole = "AGENT"
	StaffRoleAdmin StaffRole = "ADMIN"
)

// StaffMember models a support agent or administrator.
type StaffMember struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         StaffRole
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StaffPreference carries per-staff notification routing choices. It is
// consulted only when addressing a reminder, never by eligibility logic.
type StaffPreference struct {
	StaffID          string
	ReceiveReminders bool
	UpdatedAt        time.Time
}

// DefaultStaffPreference returns the preference assumed for staff without a
// stored row.
func DefaultStaffPreference(staffID string) StaffPreference {
	return StaffPreference{StaffID: staffID, ReceiveReminders: true}
}
