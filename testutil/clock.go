// Package testutil provides a manual clock for driving refresh windows in tests.
package testutil

import (
	"sync"
	"time"

	"github.com/AngelinaFiera614/wrenchmark-sub010/filters"
)

// ManualClock schedules callbacks on a virtual timeline that only moves on
// Advance. Callbacks run on the goroutine calling Advance, in due order.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	clock   *ManualClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

// NewManualClock returns a clock at t=0.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// AfterFunc implements filters.AfterFunc.
func (m *ManualClock) AfterFunc(d time.Duration, f func()) filters.Stopper {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTimer{clock: m, at: m.now + d, f: f}
	m.timers = append(m.timers, t)
	return t
}

// Now returns the elapsed virtual time.
func (m *ManualClock) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Epoch is the wall time the virtual timeline starts at.
var Epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// Time returns Epoch plus the elapsed virtual time. It fits wherever a
// func() time.Time clock is injected.
func (m *ManualClock) Time() time.Time {
	return Epoch.Add(m.Now())
}

// Advance moves the clock forward by d, firing every timer that comes due.
func (m *ManualClock) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		var next *manualTimer
		for _, t := range m.timers {
			if t.stopped || t.fired || t.at > target {
				continue
			}
			if next == nil || t.at < next.at {
				next = t
			}
		}
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = next.at
		next.fired = true
		m.mu.Unlock()

		next.f()
	}
}

// Scheduled counts timers that are neither stopped nor fired.
func (m *ManualClock) Scheduled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}
