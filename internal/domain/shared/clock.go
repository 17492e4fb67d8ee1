package shared

import (
	"sync"
	"time"
)

// Clock abstracts time so solver budgets and recorded timestamps can be
// driven by tests
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the actual system time
type RealClock struct{}

// Now returns the current system time in UTC
func (r *RealClock) Now() time.Time {
	return time.Now().UTC()
}

// NewRealClock creates a RealClock instance
func NewRealClock() Clock {
	return &RealClock{}
}

// MockClock is a controllable Clock. With a non-zero step every read moves
// the clock forward, which lets tests exhaust a time budget without waiting.
type MockClock struct {
	mu      sync.Mutex
	current time.Time
	step    time.Duration
}

// NewMockClock creates a MockClock frozen at startTime.
// If zero time is provided, starts at current time
func NewMockClock(startTime time.Time) *MockClock {
	if startTime.IsZero() {
		startTime = time.Now()
	}
	return &MockClock{current: startTime}
}

// NewSteppingClock creates a MockClock that advances step after each read
func NewSteppingClock(startTime time.Time, step time.Duration) *MockClock {
	c := NewMockClock(startTime)
	c.step = step
	return c
}

// Now returns the mock's current time, then applies the step
func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.current
	m.current = m.current.Add(m.step)
	return now
}

// Advance moves the mock clock forward by the given duration
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.current.Add(d)
}
