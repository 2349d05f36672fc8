package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters for the admin API and the
// reminder scheduler.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64

	schedulerRuns      int64
	remindersSent      int64
	guildsSkippedHours int64
	guildsSkippedConf  int64
	tickErrors         int64
	lastRunAt          time.Time
}

// SchedulerSnapshot is a point-in-time copy of scheduler counters.
type SchedulerSnapshot struct {
	Runs               int64     `json:"runs"`
	RemindersSent      int64     `json:"reminders_sent"`
	GuildsSkippedHours int64     `json:"guilds_skipped_hours"`
	GuildsSkippedConf  int64     `json:"guilds_skipped_config"`
	Errors             int64     `json:"errors"`
	LastRunAt          time.Time `json:"last_run_at"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordSchedulerRun accumulates the outcome of one scheduler pass.
func (m *Metrics) RecordSchedulerRun(at time.Time, remindersSent, skippedHours, skippedConf, errors int) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schedulerRuns++
	m.remindersSent += int64(remindersSent)
	m.guildsSkippedHours += int64(skippedHours)
	m.guildsSkippedConf += int64(skippedConf)
	m.tickErrors += int64(errors)
	m.lastRunAt = at
}

// SchedulerStats returns a snapshot of scheduler counters.
func (m *Metrics) SchedulerStats() SchedulerSnapshot {
	if m == nil {
		return SchedulerSnapshot{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return SchedulerSnapshot{
		Runs:               m.schedulerRuns,
		RemindersSent:      m.remindersSent,
		GuildsSkippedHours: m.guildsSkippedHours,
		GuildsSkippedConf:  m.guildsSkippedConf,
		Errors:             m.tickErrors,
		LastRunAt:          m.lastRunAt,
	}
}
