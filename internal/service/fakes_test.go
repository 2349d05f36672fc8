package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/reminder-service/internal/domain"
	"github.com/spec-kit/reminder-service/internal/repository"
)

// In-memory repository fakes shared by the service tests.

type memSettingsRepo struct {
	rows map[string]domain.ReminderSettings
}

func newMemSettingsRepo() *memSettingsRepo {
	return &memSettingsRepo{rows: make(map[string]domain.ReminderSettings)}
}

func (m *memSettingsRepo) Get(ctx context.Context, guildID string) (*domain.ReminderSettings, error) {
	row, ok := m.rows[guildID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &row, nil
}

func (m *memSettingsRepo) Save(ctx context.Context, settings *domain.ReminderSettings) error {
	settings.UpdatedAt = time.Now()
	m.rows[settings.GuildID] = *settings
	return nil
}

func (m *memSettingsRepo) ListEnabled(ctx context.Context) ([]domain.ReminderSettings, error) {
	var out []domain.ReminderSettings
	for _, row := range m.rows {
		if row.Enabled {
			out = append(out, row)
		}
	}
	return out, nil
}

type memHoursRepo struct {
	settings  map[string]domain.ServiceHoursSettings
	schedules []domain.ServiceHoursSchedule
	nextID    int
}

func newMemHoursRepo() *memHoursRepo {
	return &memHoursRepo{settings: make(map[string]domain.ServiceHoursSettings)}
}

func (m *memHoursRepo) GetSettings(ctx context.Context, guildID string) (*domain.ServiceHoursSettings, error) {
	row, ok := m.settings[guildID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &row, nil
}

func (m *memHoursRepo) SaveSettings(ctx context.Context, settings *domain.ServiceHoursSettings) error {
	m.settings[settings.GuildID] = *settings
	return nil
}

func (m *memHoursRepo) ListActiveSchedules(ctx context.Context, guildID string) ([]domain.ServiceHoursSchedule, error) {
	var out []domain.ServiceHoursSchedule
	for _, s := range m.schedules {
		if s.GuildID == guildID && s.Enabled {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memHoursRepo) ListSchedules(ctx context.Context, guildID string) ([]domain.ServiceHoursSchedule, error) {
	var out []domain.ServiceHoursSchedule
	for _, s := range m.schedules {
		if s.GuildID == guildID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memHoursRepo) AddSchedule(ctx context.Context, schedule *domain.ServiceHoursSchedule) error {
	m.nextID++
	schedule.ID = fmt.Sprintf("sched-%d", m.nextID)
	schedule.CreatedAt = time.Now()
	m.schedules = append(m.schedules, *schedule)
	return nil
}

func (m *memHoursRepo) DeleteSchedule(ctx context.Context, guildID, scheduleID string) error {
	for i, s := range m.schedules {
		if s.GuildID == guildID && s.ID == scheduleID {
			m.schedules = append(m.schedules[:i], m.schedules[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type memHolidayRepo struct {
	holidays []domain.Holiday
	nextID   int
}

func (m *memHolidayRepo) ListActive(ctx context.Context, guildID string) ([]domain.Holiday, error) {
	var out []domain.Holiday
	for _, h := range m.holidays {
		if h.GuildID == guildID && h.Enabled {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *memHolidayRepo) List(ctx context.Context, guildID string) ([]domain.Holiday, error) {
	var out []domain.Holiday
	for _, h := range m.holidays {
		if h.GuildID == guildID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *memHolidayRepo) Add(ctx context.Context, holiday *domain.Holiday) error {
	m.nextID++
	holiday.ID = fmt.Sprintf("holiday-%d", m.nextID)
	holiday.CreatedAt = time.Now()
	m.holidays = append(m.holidays, *holiday)
	return nil
}

func (m *memHolidayRepo) Delete(ctx context.Context, guildID, holidayID string) error {
	for i, h := range m.holidays {
		if h.GuildID == guildID && h.ID == holidayID {
			m.holidays = append(m.holidays[:i], m.holidays[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type memStaffRepo struct {
	members map[string]domain.StaffMember
	prefs   map[string]domain.StaffPreference
}

func newMemStaffRepo() *memStaffRepo {
	return &memStaffRepo{
		members: make(map[string]domain.StaffMember),
		prefs:   make(map[string]domain.StaffPreference),
	}
}

func (m *memStaffRepo) GetByID(ctx context.Context, id string) (*domain.StaffMember, error) {
	member, ok := m.members[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &member, nil
}

func (m *memStaffRepo) GetByEmail(ctx context.Context, email string) (*domain.StaffMember, error) {
	for _, member := range m.members {
		if member.Email == email {
			return &member, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memStaffRepo) GetPreference(ctx context.Context, staffID string) (*domain.StaffPreference, error) {
	pref, ok := m.prefs[staffID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &pref, nil
}

func (m *memStaffRepo) SetPreference(ctx context.Context, staffID string, receiveReminders bool) error {
	m.prefs[staffID] = domain.StaffPreference{StaffID: staffID, ReceiveReminders: receiveReminders}
	return nil
}

type memTrackingRepo struct {
	rows map[string]domain.ResponseTracking
}

func newMemTrackingRepo() *memTrackingRepo {
	return &memTrackingRepo{rows: make(map[string]domain.ResponseTracking)}
}

func (m *memTrackingRepo) Get(ctx context.Context, ticketID string) (*domain.ResponseTracking, error) {
	row, ok := m.rows[ticketID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &row, nil
}

func (m *memTrackingRepo) RecordCustomerMessage(ctx context.Context, ticketID string, at time.Time) error {
	row := m.rows[ticketID]
	row.TicketID = ticketID
	row.LastCustomerMessageAt = &at
	row.NoResponseNeeded = false
	m.rows[ticketID] = row
	return nil
}

func (m *memTrackingRepo) RecordStaffResponse(ctx context.Context, ticketID string, at time.Time) error {
	row := m.rows[ticketID]
	row.TicketID = ticketID
	row.LastStaffResponseAt = &at
	row.ReminderSent = false
	row.ReminderCount = 0
	row.LastReminderAt = nil
	m.rows[ticketID] = row
	return nil
}

func (m *memTrackingRepo) MarkNoResponseNeeded(ctx context.Context, ticketID string) error {
	row := m.rows[ticketID]
	row.TicketID = ticketID
	row.NoResponseNeeded = true
	row.ReminderSent = false
	row.ReminderSentAt = nil
	m.rows[ticketID] = row
	return nil
}

func (m *memTrackingRepo) SaveReminderState(ctx context.Context, tracking *domain.ResponseTracking) error {
	m.rows[tracking.TicketID] = *tracking
	return nil
}

func (m *memTrackingRepo) Delete(ctx context.Context, ticketID string) error {
	delete(m.rows, ticketID)
	return nil
}

type memTicketRepo struct {
	tickets map[string]domain.Ticket
}

func newMemTicketRepo() *memTicketRepo {
	return &memTicketRepo{tickets: make(map[string]domain.Ticket)}
}

func (m *memTicketRepo) Upsert(ctx context.Context, ticket *domain.Ticket) error {
	m.tickets[ticket.ID] = *ticket
	return nil
}

func (m *memTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := m.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &ticket, nil
}

func (m *memTicketRepo) SetStatus(ctx context.Context, id string, status domain.TicketStatus) error {
	ticket, ok := m.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	ticket.Status = status
	m.tickets[id] = ticket
	return nil
}

func (m *memTicketRepo) SetHumanHandled(ctx context.Context, id string, assignedStaffID *string) error {
	ticket, ok := m.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	ticket.HumanHandled = true
	ticket.AssignedStaffID = assignedStaffID
	m.tickets[id] = ticket
	return nil
}

func (m *memTicketRepo) ListReminderCandidates(ctx context.Context, guildID string) ([]repository.ReminderCandidate, error) {
	return nil, nil
}

type stubNotifier struct {
	members    []string
	resolveErr error
}

func (s *stubNotifier) SendReminder(ctx context.Context, channelRef, mentionRef, text string, escalationCount int) (string, error) {
	return "msg-1", nil
}

func (s *stubNotifier) SuppressControls(ctx context.Context, messageRef string) error {
	return nil
}

func (s *stubNotifier) ResolveRoleMembers(ctx context.Context, roleRef string) ([]string, error) {
	if s.resolveErr != nil {
		return nil, s.resolveErr
	}
	return s.members, nil
}
