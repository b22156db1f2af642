// Package trash holds recently deleted job aggregates in memory for a bounded
// undo window.
package trash

import (
	"log/slog"
	"sync"
	"time"

	"github.com/ia-usgs/field-service-manager-sub001/internal/shared"
)

// DefaultWindow is how long a deleted aggregate stays restorable.
const DefaultWindow = 30 * time.Second

type entry struct {
	agg       Aggregate
	st        state
	timer     shared.Timer
	trashedAt time.Time
}

// Manager owns the in-memory trash map. It is the only shared mutable
// structure outside the durable store; all mutation goes through
// Stash/Restore/Expire.
type Manager struct {
	mu      sync.Mutex
	entries map[string]*entry
	window  time.Duration
	clock   shared.Clock
	logger  *slog.Logger
}

// NewManager builds a Manager with the given undo window. A zero window
// falls back to DefaultWindow.
func NewManager(window time.Duration, clock shared.Clock, logger *slog.Logger) *Manager {
	if window <= 0 {
		window = DefaultWindow
	}
	if clock == nil {
		clock = shared.RealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		entries: make(map[string]*entry),
		window:  window,
		clock:   clock,
		logger:  logger,
	}
}

// Stash records the removed aggregate and schedules expiry. Stashing over an
// existing entry cancels the previous timer so only one pending entry exists
// per job id. onExpire fires after the window unless the entry is restored
// first.
func (m *Manager) Stash(agg Aggregate, onExpire func(Aggregate)) {
	jobID := agg.Job.ID

	m.mu.Lock()
	if prev, ok := m.entries[jobID]; ok && prev.timer != nil {
		prev.timer.Stop()
	}
	e := &entry{agg: agg, st: stateTrashed, trashedAt: m.clock.Now()}
	m.entries[jobID] = e
	e.timer = m.clock.AfterFunc(m.window, func() {
		if expired, ok := m.expire(jobID, e); ok && onExpire != nil {
			onExpire(expired)
		}
	})
	m.mu.Unlock()

	m.logger.Info("job stashed in trash",
		slog.String("job_id", jobID),
		slog.Duration("window", m.window))
}

// Restore hands back the stashed aggregate if the entry is still trashed,
// cancelling its expiry. The second return is false when there is nothing to
// restore (already expired, already restored, or never stashed).
func (m *Manager) Restore(jobID string) (Aggregate, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[jobID]
	if !ok || e.st != stateTrashed {
		return Aggregate{}, false
	}
	e.st = stateRestored
	if e.timer != nil {
		e.timer.Stop()
	}
	delete(m.entries, jobID)
	return e.agg, true
}

// Unrestore puts an aggregate back after a failed re-insertion so the caller
// may retry within a fresh window.
func (m *Manager) Unrestore(agg Aggregate, onExpire func(Aggregate)) {
	m.Stash(agg, onExpire)
}

// ExpireNow discards an entry ahead of its timer (explicit early purge).
// It reports whether an entry was discarded.
func (m *Manager) ExpireNow(jobID string) bool {
	m.mu.Lock()
	e, ok := m.entries[jobID]
	m.mu.Unlock()
	if !ok {
		return false
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	_, won := m.expire(jobID, e)
	return won
}

// expire flips the entry to its terminal state. The state flag guarantees at
// most one of restore/expire wins; the loser is a no-op.
func (m *Manager) expire(jobID string, e *entry) (Aggregate, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.entries[jobID]
	if !ok || current != e || e.st != stateTrashed {
		return Aggregate{}, false
	}
	e.st = stateExpired
	delete(m.entries, jobID)
	m.logger.Info("trash entry expired", slog.String("job_id", jobID))
	return e.agg, true
}

// Pending lists entries still within their undo window.
func (m *Manager) Pending() []Info {
	m.mu.Lock()
	defer m.mu.Unlock()

	infos := make([]Info, 0, len(m.entries))
	for id, e := range m.entries {
		infos = append(infos, Info{
			JobID:     id,
			JobTitle:  e.agg.Job.Title,
			TrashedAt: e.trashedAt,
			ExpiresAt: e.trashedAt.Add(m.window),
		})
	}
	return infos
}

// Window reports the configured undo window.
func (m *Manager) Window() time.Duration { return m.window }
