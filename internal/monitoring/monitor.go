// Package monitoring tracks craft attempts in process for the health
// endpoint. Prometheus counters cover the same events for scraping.
package monitoring

import (
	"sync"
	"time"
)

// Monitor counts craft attempts per outcome and remembers the latest one
type Monitor struct {
	mu        sync.RWMutex
	startTime time.Time
	crafts    map[string]int
	last      *craftAttempt
	now       func() time.Time
}

type craftAttempt struct {
	at      time.Time
	outcome string
	matched int
}

// NewMonitor creates a monitor whose uptime starts now
func NewMonitor() *Monitor {
	return &Monitor{
		startTime: time.Now(),
		crafts:    make(map[string]int),
		now:       time.Now,
	}
}

// RecordCraft notes one craft attempt. matched is the size of the AI Menu
// the attempt drew from.
func (m *Monitor) RecordCraft(outcome string, matched int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.crafts[outcome]++
	m.last = &craftAttempt{at: m.now(), outcome: outcome, matched: matched}
}

// Crafts returns the number of attempts recorded with outcome
func (m *Monitor) Crafts(outcome string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.crafts[outcome]
}

// Snapshot returns the craft statistics as a fresh map the caller may
// extend: uptime_seconds, crafts_<outcome> per outcome seen and, once a
// craft has run, last_craft_at, last_craft_outcome and last_craft_matched.
func (m *Monitor) Snapshot() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := make(map[string]interface{}, len(m.crafts)+4)
	stats["uptime_seconds"] = time.Since(m.startTime).Seconds()
	for outcome, count := range m.crafts {
		stats["crafts_"+outcome] = count
	}
	if m.last != nil {
		stats["last_craft_at"] = m.last.at.Format(time.RFC3339)
		stats["last_craft_outcome"] = m.last.outcome
		stats["last_craft_matched"] = m.last.matched
	}
	return stats
}

// Reset forgets every craft attempt. Uptime is kept.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.crafts = make(map[string]int)
	m.last = nil
}
