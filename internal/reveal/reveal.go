// Package reveal tracks which page sections have entered the viewport.
//
// Each section owns a one-shot latch: the first observation whose visible ratio
// reaches the section threshold reveals it, and nothing ever hides it again.
package reveal

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// State is the visibility of a section
type State int

// Section states
const (
	Hidden State = iota
	Revealed
)

func (s State) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Revealed:
		return "revealed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Section names used by the about and projects pages
const (
	SectionStats      = "stats"
	SectionCVCard     = "cv-card"
	SectionExperience = "experience"
	SectionEducation  = "education"
	SectionStacks     = "stacks"
	SectionIntro      = "intro"
	SectionProjects   = "projects"
)

// DefaultThresholds maps each section to the visible ratio that reveals it
var DefaultThresholds = map[string]float64{
	SectionStats:      0.3,
	SectionCVCard:     0.1,
	SectionExperience: 0.1,
	SectionEducation:  0.1,
	SectionStacks:     0.1,
	SectionIntro:      0.1,
	SectionProjects:   0.1,
}

// WideViewportDelay is how long a wide viewport waits before revealing every section
const WideViewportDelay = 100 * time.Millisecond

// Latch is a one-shot Hidden -> Revealed switch
type Latch struct {
	threshold float64
	state     State
}

// NewLatch creates a hidden latch. Thresholds outside (0, 1] are clamped into it.
func NewLatch(threshold float64) *Latch {
	if threshold <= 0 {
		threshold = 0.01
	}
	if threshold > 1 {
		threshold = 1
	}
	return &Latch{threshold: threshold}
}

// Threshold returns the visible ratio that reveals the latch
func (l *Latch) Threshold() float64 { return l.threshold }

// State returns the current state
func (l *Latch) State() State { return l.state }

// Observe records a visible ratio and reports whether this call revealed the latch.
func (l *Latch) Observe(ratio float64) bool {
	if l.state == Revealed || ratio < l.threshold {
		return false
	}
	l.state = Revealed
	return true
}

// Force reveals the latch regardless of ratio and reports whether it changed.
func (l *Latch) Force() bool {
	if l.state == Revealed {
		return false
	}
	l.state = Revealed
	return true
}

// Coordinator owns one latch per named section.
// It is safe for concurrent use; callbacks run outside the lock.
type Coordinator struct {
	mu        sync.Mutex
	latches   map[string]*Latch
	callbacks map[string][]func(section string)
}

// NewCoordinator registers a hidden latch for each section in thresholds
func NewCoordinator(thresholds map[string]float64) *Coordinator {
	c := &Coordinator{
		latches:   make(map[string]*Latch, len(thresholds)),
		callbacks: make(map[string][]func(string)),
	}
	for name, threshold := range thresholds {
		c.latches[name] = NewLatch(threshold)
	}
	return c
}

// Register adds a section. Registering an existing section is a no-op.
func (c *Coordinator) Register(section string, threshold float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.latches[section]; !ok {
		c.latches[section] = NewLatch(threshold)
	}
}

// OnReveal registers fn to run once when section is revealed.
// If the section is already revealed fn runs immediately.
func (c *Coordinator) OnReveal(section string, fn func(section string)) {
	c.mu.Lock()
	latch, ok := c.latches[section]
	if ok && latch.State() == Revealed {
		c.mu.Unlock()
		fn(section)
		return
	}
	c.callbacks[section] = append(c.callbacks[section], fn)
	c.mu.Unlock()
}

// Observe feeds an intersection ratio for section.
// Unknown sections are ignored, matching an observer whose element never attached.
func (c *Coordinator) Observe(section string, ratio float64) bool {
	return c.transition(section, func(l *Latch) bool { return l.Observe(ratio) })
}

// State returns the state of section; unknown sections are Hidden
func (c *Coordinator) State(section string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if latch, ok := c.latches[section]; ok {
		return latch.State()
	}
	return Hidden
}

// Threshold returns the reveal ratio of section and whether it is registered
func (c *Coordinator) Threshold(section string) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if latch, ok := c.latches[section]; ok {
		return latch.Threshold(), true
	}
	return 0, false
}

// Visible returns every revealed section, sorted by name
func (c *Coordinator) Visible() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	visible := []string{}
	for name, latch := range c.latches {
		if latch.State() == Revealed {
			visible = append(visible, name)
		}
	}
	sort.Strings(visible)
	return visible
}

// RevealAll reveals every registered section and returns how many changed state
func (c *Coordinator) RevealAll() int {
	c.mu.Lock()
	names := make([]string, 0, len(c.latches))
	for name := range c.latches {
		names = append(names, name)
	}
	c.mu.Unlock()

	sort.Strings(names)
	changed := 0
	for _, name := range names {
		if c.transition(name, (*Latch).Force) {
			changed++
		}
	}
	return changed
}

// RevealAllAfter reveals every section once d has elapsed, unless ctx ends first.
// The returned channel closes when the wait is over either way.
func (c *Coordinator) RevealAllAfter(ctx context.Context, d time.Duration) <-chan struct{} {
	done := make(chan struct{})
	timer := time.NewTimer(d)
	go func() {
		defer close(done)
		defer timer.Stop()
		select {
		case <-ctx.Done():
		case <-timer.C:
			c.RevealAll()
		}
	}()
	return done
}

func (c *Coordinator) transition(section string, apply func(*Latch) bool) bool {
	c.mu.Lock()
	latch, ok := c.latches[section]
	if !ok || !apply(latch) {
		c.mu.Unlock()
		return false
	}
	pending := c.callbacks[section]
	delete(c.callbacks, section)
	c.mu.Unlock()

	for _, fn := range pending {
		fn(section)
	}
	return true
}
