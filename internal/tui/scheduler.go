package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// timerMsg is delivered when a scheduled call is due.
type timerMsg struct {
	id uint64
}

// Scheduler runs delayed calls on the bubbletea event loop. AfterFunc only
// queues a tea.Tick; the model must return Drain() from Update and route
// timerMsg values to Fire.
type Scheduler struct {
	next    uint64
	pending map[uint64]func()
	cmds    []tea.Cmd
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{pending: make(map[uint64]func())}
}

// AfterFunc schedules fn to run after d.
func (s *Scheduler) AfterFunc(d time.Duration, fn func()) func() bool {
	s.next++
	id := s.next
	s.pending[id] = fn
	s.cmds = append(s.cmds, tea.Tick(d, func(time.Time) tea.Msg {
		return timerMsg{id: id}
	}))
	return func() bool {
		_, ok := s.pending[id]
		delete(s.pending, id)
		return ok
	}
}

// Fire runs the call identified by msg unless it was stopped.
func (s *Scheduler) Fire(msg timerMsg) {
	fn, ok := s.pending[msg.id]
	if !ok {
		return
	}
	delete(s.pending, msg.id)
	fn()
}

// Pending returns the number of calls not yet fired or stopped.
func (s *Scheduler) Pending() int { return len(s.pending) }

// Drain returns the queued tick commands.
func (s *Scheduler) Drain() tea.Cmd {
	if len(s.cmds) == 0 {
		return nil
	}
	cmds := s.cmds
	s.cmds = nil
	return tea.Batch(cmds...)
}
