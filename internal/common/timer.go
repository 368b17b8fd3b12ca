// Package common provides shared utilities including timing functionality.
package common

import (
	"fmt"
	"strings"
	"time"
)

// Timer provides timing utilities for diagnostics with optional naming.
type Timer struct {
	start    time.Time
	name     string
	duration time.Duration
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// NewNamedTimer creates a new timer with the given name.
func NewNamedTimer(name string) *Timer {
	return &Timer{
		name:  name,
		start: time.Now(),
	}
}

// Stop stops the timer and returns the elapsed duration.
func (t *Timer) Stop() time.Duration {
	t.duration = time.Since(t.start)
	return t.duration
}

// Duration returns the recorded duration (only valid after Stop()).
func (t *Timer) Duration() time.Duration {
	return t.duration
}

// Name returns the timer name (empty string if unnamed).
func (t *Timer) Name() string {
	return t.name
}

// String returns a formatted string representation of the timer.
func (t *Timer) String() string {
	if t.name != "" {
		return fmt.Sprintf("%s: %v", t.name, t.duration)
	}
	return fmt.Sprintf("%v", t.duration)
}

// StageTimer records a sequence of named stages for timing reports.
// It is not safe for concurrent use; each run owns its own instance.
type StageTimer struct {
	start  time.Time
	last   time.Time
	stages []Timer
}

// NewStageTimer starts a stage timer.
func NewStageTimer() *StageTimer {
	now := time.Now()
	return &StageTimer{start: now, last: now}
}

// Mark closes the current stage under the given name.
func (s *StageTimer) Mark(name string) time.Duration {
	now := time.Now()
	d := now.Sub(s.last)
	s.stages = append(s.stages, Timer{name: name, start: s.last, duration: d})
	s.last = now
	return d
}

// Total returns the elapsed time since the timer started.
func (s *StageTimer) Total() time.Duration {
	return time.Since(s.start)
}

// Stages returns the recorded stages in order.
func (s *StageTimer) Stages() []Timer {
	return s.stages
}

// Report renders the stages and total as one line per entry.
func (s *StageTimer) Report() string {
	var b strings.Builder
	for _, st := range s.stages {
		fmt.Fprintf(&b, "%s: %v\n", st.name, st.duration)
	}
	fmt.Fprintf(&b, "total: %v\n", s.Total())
	return b.String()
}
