package trash

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ia-usgs/field-service-manager-sub001/internal/jobs"
	"github.com/ia-usgs/field-service-manager-sub001/internal/shared"
)

// fakeClock drives timers by hand so expiry is deterministic in tests.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	deadline time.Time
	fn       func()
	stopped  bool
	fired    bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) shared.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{deadline: c.now.Add(d), fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward and fires due timers outside the clock lock.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.deadline.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()
	for _, t := range due {
		t.fn()
	}
}

func testAggregate(id string) Aggregate {
	return Aggregate{Job: jobs.Job{ID: id, Title: "Replace thermostat"}}
}

func TestRestoreWithinWindow(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(30*time.Second, clock, nil)

	m.Stash(testAggregate("job-1"), nil)

	agg, ok := m.Restore("job-1")
	require.True(t, ok)
	require.Equal(t, "job-1", agg.Job.ID)

	// A second restore finds nothing.
	_, ok = m.Restore("job-1")
	require.False(t, ok)
}

func TestExpireAfterWindow(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(30*time.Second, clock, nil)

	var expired []string
	m.Stash(testAggregate("job-1"), func(agg Aggregate) {
		expired = append(expired, agg.Job.ID)
	})

	clock.Advance(29 * time.Second)
	require.Empty(t, expired)

	clock.Advance(2 * time.Second)
	require.Equal(t, []string{"job-1"}, expired)

	_, ok := m.Restore("job-1")
	require.False(t, ok)
}

func TestRestoreBeatsExpiry(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(30*time.Second, clock, nil)

	fired := 0
	m.Stash(testAggregate("job-1"), func(Aggregate) { fired++ })

	_, ok := m.Restore("job-1")
	require.True(t, ok)

	// Even if the timer callback raced past Stop, the state flag makes it a
	// no-op.
	clock.Advance(time.Minute)
	require.Zero(t, fired)
}

func TestRestashCancelsPreviousTimer(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(30*time.Second, clock, nil)

	var expirations int
	onExpire := func(Aggregate) { expirations++ }

	m.Stash(testAggregate("job-1"), onExpire)
	clock.Advance(20 * time.Second)
	m.Stash(testAggregate("job-1"), onExpire)

	// The first timer's deadline passes; only the second entry counts.
	clock.Advance(15 * time.Second)
	require.Zero(t, expirations)

	clock.Advance(20 * time.Second)
	require.Equal(t, 1, expirations)
}

func TestUnrestoreReopensWindow(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(30*time.Second, clock, nil)

	m.Stash(testAggregate("job-1"), nil)
	agg, ok := m.Restore("job-1")
	require.True(t, ok)

	m.Unrestore(agg, nil)
	got, ok := m.Restore("job-1")
	require.True(t, ok)
	require.Equal(t, agg.Job.ID, got.Job.ID)
}

func TestExpireNow(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(30*time.Second, clock, nil)

	m.Stash(testAggregate("job-1"), nil)
	require.True(t, m.ExpireNow("job-1"))
	require.False(t, m.ExpireNow("job-1"))

	_, ok := m.Restore("job-1")
	require.False(t, ok)
}

func TestPending(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(30*time.Second, clock, nil)

	require.Empty(t, m.Pending())

	m.Stash(testAggregate("job-1"), nil)
	m.Stash(testAggregate("job-2"), nil)

	infos := m.Pending()
	require.Len(t, infos, 2)
	for _, info := range infos {
		require.Equal(t, clock.Now(), info.TrashedAt)
		require.Equal(t, clock.Now().Add(30*time.Second), info.ExpiresAt)
	}
}

func TestZeroWindowFallsBackToDefault(t *testing.T) {
	m := NewManager(0, newFakeClock(), nil)
	require.Equal(t, DefaultWindow, m.Window())
}
