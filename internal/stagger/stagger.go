// Package stagger reveals list items one after another with an index-proportional delay.
package stagger

import (
	"slices"
	"sync"
	"time"
)

// Timing is the delay before the first item and the gap between items
type Timing struct {
	Base time.Duration
	Step time.Duration
}

// Presets used by the pages
var (
	FeaturedProjects  = Timing{Base: 300 * time.Millisecond, Step: 200 * time.Millisecond}
	PortfolioProjects = Timing{Base: 300 * time.Millisecond, Step: 150 * time.Millisecond}
)

// Offsets returns base + i*step for i in [0, n).
func Offsets(n int, t Timing) []time.Duration {
	if n <= 0 {
		return []time.Duration{}
	}
	offsets := make([]time.Duration, n)
	for i := range offsets {
		offsets[i] = t.Base + time.Duration(i)*t.Step
	}
	return offsets
}

// Delay returns the offset of item i
func (t Timing) Delay(i int) time.Duration {
	return t.Base + time.Duration(i)*t.Step
}

// Sequencer appends ids to a revealed set on a staggered schedule.
// All pending timers of a run belong to one generation and are cancelled together.
type Sequencer struct {
	timing Timing

	mu         sync.Mutex
	revealed   []int
	timers     []*time.Timer
	generation int
	pending    int
	done       chan struct{}
	onReveal   func(id int)
}

// NewSequencer creates an idle sequencer. onReveal, if non-nil, is called after
// each id is appended, outside the internal lock.
func NewSequencer(t Timing, onReveal func(id int)) *Sequencer {
	done := make(chan struct{})
	close(done)
	return &Sequencer{timing: t, done: done, onReveal: onReveal}
}

// Start schedules ids for reveal. Any schedule still in flight is cancelled first
// and the revealed set is cleared, so a new list never receives stale ids.
func (s *Sequencer) Start(ids []int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()
	s.revealed = s.revealed[:0]
	s.generation++
	s.pending = len(ids)
	s.done = make(chan struct{})
	if len(ids) == 0 {
		close(s.done)
		return
	}

	gen := s.generation
	// Items fire strictly in list order even when offsets collide.
	// Each timer reveals the next unrevealed position rather than a captured id.
	order := slices.Clone(ids)
	s.timers = make([]*time.Timer, len(order))
	for i := range order {
		s.timers[i] = time.AfterFunc(s.timing.Delay(i), func() { s.fire(gen, order) })
	}
}

func (s *Sequencer) fire(gen int, order []int) {
	s.mu.Lock()
	if gen != s.generation || s.pending == 0 {
		s.mu.Unlock()
		return
	}
	id := order[len(s.revealed)]
	s.revealed = append(s.revealed, id)
	s.pending--
	if s.pending == 0 {
		s.timers = nil
		close(s.done)
	}
	cb := s.onReveal
	s.mu.Unlock()

	if cb != nil {
		cb(id)
	}
}

// Stop cancels every pending reveal. Ids already revealed stay revealed.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

func (s *Sequencer) cancelLocked() {
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
	s.generation++
	if s.pending > 0 {
		s.pending = 0
		close(s.done)
	}
}

// Revealed returns a copy of the ids revealed so far, in reveal order
func (s *Sequencer) Revealed() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.revealed)
}

// IsRevealed reports whether id has been revealed in the current run
func (s *Sequencer) IsRevealed(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.revealed, id)
}

// Done returns a channel closed when the current run has revealed every id or was stopped
func (s *Sequencer) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}
