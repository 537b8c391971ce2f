// Package state provides thread-safe state management for the interactive
// views: the latest sky snapshot, elevation history and horizon events.
package state

import (
	"sync"
	"time"

	"github.com/litescript/ls-almanac/internal/report"
)

// EventType represents the type of horizon event.
type EventType string

const (
	EventRise EventType = "RISE"
	EventSet  EventType = "SET"
)

// Event is an object crossing the horizon between two refreshes.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"` // sky time of the refresh that saw it
	Object    string    `json:"object"`
	Azimuth   float64   `json:"azimuth"`
}

// TimeSeries is a single data point with timestamp.
type TimeSeries struct {
	Timestamp time.Time
	Value     float64
}

// Manager handles all shared sky state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	// Current state
	current         *report.SkySnapshot
	lastCompute     time.Time
	lastError       error
	computeDuration time.Duration

	// Visibility at the previous refresh, for event detection
	prevVisible map[string]bool

	// Elevation history of the Sun, the Moon and the planets
	elevHistory   map[string][]TimeSeries
	maxHistoryLen int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int
	eventCount   uint64

	refreshInterval time.Duration
}

// Config holds configuration for the state manager.
type Config struct {
	MaxHistoryLen   int
	MaxEvents       int
	RefreshInterval time.Duration
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxHistoryLen:   3600, // 1 hour at the default refresh
		MaxEvents:       50,
		RefreshInterval: time.Second,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	return &Manager{
		maxHistoryLen:   cfg.MaxHistoryLen,
		maxEvents:       maxEvents,
		events:          make([]Event, 0, maxEvents),
		refreshInterval: cfg.RefreshInterval,
		elevHistory:     make(map[string][]TimeSeries),
	}
}

// Update atomically installs a freshly computed sky. A nil sky records only
// the error.
func (m *Manager) Update(sky *report.SkySnapshot, computeDuration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastCompute = time.Now()
	m.lastError = err
	m.computeDuration = computeDuration

	if sky == nil {
		return
	}

	visible := visibility(sky)
	if m.prevVisible != nil {
		m.detectEvents(sky, visible)
	}
	m.prevVisible = visible

	m.current = sky
	m.updateHistory(sky)
}

// Reset forgets visibility and history, so a jump in sky time does not
// produce spurious events.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prevVisible = nil
	m.elevHistory = make(map[string][]TimeSeries)
}

// object is one row of a snapshot reduced to what event detection needs.
type object struct {
	name    string
	azimuth float64
	visible bool
}

func objects(sky *report.SkySnapshot) []object {
	var out []object
	if sky.Sun != nil {
		out = append(out, object{sky.Sun.Name, sky.Sun.Azimuth, sky.Sun.Visible})
	}
	if sky.Moon != nil {
		out = append(out, object{sky.Moon.Name, sky.Moon.Azimuth, sky.Moon.Visible})
	}
	for _, p := range sky.Planets {
		out = append(out, object{p.Name, p.Azimuth, p.Visible})
	}
	for _, s := range sky.Stars {
		out = append(out, object{s.Name, s.Azimuth, s.Visible})
	}
	return out
}

func visibility(sky *report.SkySnapshot) map[string]bool {
	objs := objects(sky)
	v := make(map[string]bool, len(objs))
	for _, o := range objs {
		v[o.name] = o.visible
	}
	return v
}

// detectEvents compares the new sky with the previous visibility.
func (m *Manager) detectEvents(sky *report.SkySnapshot, visible map[string]bool) {
	at := sky.Observer.Time
	for _, o := range objects(sky) {
		was, seen := m.prevVisible[o.name]
		if !seen || was == visible[o.name] {
			continue
		}
		typ := EventSet
		if visible[o.name] {
			typ = EventRise
		}
		m.addEvent(Event{Type: typ, Timestamp: at, Object: o.name, Azimuth: o.azimuth})
	}
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	m.eventCount++
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

func (m *Manager) updateHistory(sky *report.SkySnapshot) {
	ts := sky.Observer.Time
	add := func(name string, el float64) {
		hist := append(m.elevHistory[name], TimeSeries{Timestamp: ts, Value: el})
		if m.maxHistoryLen > 0 && len(hist) > m.maxHistoryLen {
			hist = hist[1:]
		}
		m.elevHistory[name] = hist
	}

	if sky.Sun != nil {
		add(sky.Sun.Name, sky.Sun.Elevation)
	}
	if sky.Moon != nil {
		add(sky.Moon.Name, sky.Moon.Elevation)
	}
	for _, p := range sky.Planets {
		add(p.Name, p.Elevation)
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Sky             *report.SkySnapshot
	LastCompute     time.Time
	LastError       error
	ComputeDuration time.Duration
	Events          []Event
	EventCount      uint64 // events detected since start, including those evicted
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot{
		Sky:             m.current,
		LastCompute:     m.lastCompute,
		LastError:       m.lastError,
		ComputeDuration: m.computeDuration,
		Events:          m.getEventsOrdered(),
		EventCount:      m.eventCount,
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		result[i] = m.events[(m.eventWriteAt+i)%m.maxEvents]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// ElevationHistory returns a copy of the elevation series of a body.
func (m *Manager) ElevationHistory(name string) []TimeSeries {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hist, ok := m.elevHistory[name]
	if !ok {
		return nil
	}
	out := make([]TimeSeries, len(hist))
	copy(out, hist)
	return out
}

// RefreshInterval returns the configured refresh interval.
func (m *Manager) RefreshInterval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshInterval
}

// SetRefreshInterval updates the refresh interval.
func (m *Manager) SetRefreshInterval(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshInterval = d
}

// HasData returns true once a sky has been computed.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}
