package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tango/internal/session"
)

// timerMsg is delivered when an armed timer elapses.
type timerMsg struct {
	id int
}

// Scheduler runs engine timers through the Bubble Tea event loop so the
// callbacks execute inside Update, on the same goroutine as every other
// engine call.
type Scheduler struct {
	nextID  int
	pending map[int]func()
	queued  []tea.Cmd
}

// NewScheduler returns an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{pending: map[int]func(){}}
}

type teaTimer struct {
	s  *Scheduler
	id int
}

// Stop implements session.Timer.
func (t teaTimer) Stop() bool {
	_, ok := t.s.pending[t.id]
	delete(t.s.pending, t.id)
	return ok
}

// AfterFunc implements session.Scheduler. The tick command is queued until
// the next Drain.
func (s *Scheduler) AfterFunc(d time.Duration, f func()) session.Timer {
	s.nextID++
	id := s.nextID
	s.pending[id] = f
	s.queued = append(s.queued, tea.Tick(d, func(time.Time) tea.Msg {
		return timerMsg{id: id}
	}))
	return teaTimer{s: s, id: id}
}

// Drain returns the tick commands queued since the last call.
func (s *Scheduler) Drain() tea.Cmd {
	if len(s.queued) == 0 {
		return nil
	}
	cmds := s.queued
	s.queued = nil
	return tea.Batch(cmds...)
}

// Fire runs the callback for id unless it was stopped. It reports whether a
// callback ran.
func (s *Scheduler) Fire(id int) bool {
	f, ok := s.pending[id]
	if !ok {
		return false
	}
	delete(s.pending, id)
	f()
	return true
}

// Pending returns the number of armed timers.
func (s *Scheduler) Pending() int {
	return len(s.pending)
}
