package dispatcher

import (
	"sort"
	"sync"
	"time"

	"github.com/dshills/keyfocus/internal/input/key"
)

// Metrics collects recognition statistics.
type Metrics struct {
	mu sync.RWMutex

	// Per-action metrics
	actionMetrics map[string]*ActionMetrics

	// Global counters
	events     map[key.EventType]uint64
	captured   uint64
	unmappable uint64
	failures   uint64

	// Time spent handling events
	totalDuration time.Duration
}

// ActionMetrics holds metrics for a specific action.
type ActionMetrics struct {
	Action     string
	FireCount  uint64
	ErrorCount uint64
	LastFire   time.Time
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		actionMetrics: make(map[string]*ActionMetrics),
		events:        make(map[key.EventType]uint64),
	}
}

// RecordEvent records one handled event.
func (m *Metrics) RecordEvent(t key.EventType, captured bool, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events[t]++
	m.totalDuration += duration
	if captured {
		m.captured++
	}
}

// RecordUnmappable records an event whose key could not be mapped.
func (m *Metrics) RecordUnmappable() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unmappable++
}

// RecordFire records a rule firing and whether handing off its action failed.
func (m *Metrics) RecordFire(act string, at time.Time, failed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	am := m.actionMetrics[act]
	if am == nil {
		am = &ActionMetrics{Action: act}
		m.actionMetrics[act] = am
	}
	am.FireCount++
	am.LastFire = at

	if failed {
		am.ErrorCount++
		m.failures++
	}
}

// RecordFailure records an action failure reported after the hand-off,
// such as an error from the action worker.
func (m *Metrics) RecordFailure(act string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.failures++
	if am := m.actionMetrics[act]; am != nil {
		am.ErrorCount++
	}
}

// Events returns the number of events of the given type.
func (m *Metrics) Events(t key.EventType) uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.events[t]
}

// TotalEvents returns the number of events of every type.
func (m *Metrics) TotalEvents() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var n uint64
	for _, c := range m.events {
		n += c
	}
	return n
}

// Captured returns the number of captured events.
func (m *Metrics) Captured() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.captured
}

// Unmappable returns the number of unmappable events.
func (m *Metrics) Unmappable() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.unmappable
}

// Failures returns the number of failed actions.
func (m *Metrics) Failures() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.failures
}

// AverageDuration returns the average time spent handling an event.
func (m *Metrics) AverageDuration() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var n uint64
	for _, c := range m.events {
		n += c
	}
	if n == 0 {
		return 0
	}
	return m.totalDuration / time.Duration(n)
}

// ActionStats returns metrics for a specific action.
func (m *Metrics) ActionStats(act string) *ActionMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	am := m.actionMetrics[act]
	if am == nil {
		return nil
	}

	cp := *am
	return &cp
}

// TopActions returns the top N most fired actions.
func (m *Metrics) TopActions(n int) []*ActionMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	actions := make([]*ActionMetrics, 0, len(m.actionMetrics))
	for _, am := range m.actionMetrics {
		cp := *am
		actions = append(actions, &cp)
	}

	sort.Slice(actions, func(i, j int) bool {
		if actions[i].FireCount != actions[j].FireCount {
			return actions[i].FireCount > actions[j].FireCount
		}
		return actions[i].Action < actions[j].Action
	})

	if n > len(actions) {
		n = len(actions)
	}
	return actions[:n]
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.actionMetrics = make(map[string]*ActionMetrics)
	m.events = make(map[key.EventType]uint64)
	m.captured = 0
	m.unmappable = 0
	m.failures = 0
	m.totalDuration = 0
}
