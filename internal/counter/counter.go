// Package counter animates statistics counting up from zero to their target.
package counter

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/devfolio/internal/types"
)

const (
	// animationDuration and animationSteps give the base tick period of the statistics counters
	animationDuration = 100 * time.Millisecond
	animationSteps    = 60
)

// BasePeriod is the tick period of the fastest statistics counter
const BasePeriod = animationDuration / animationSteps

// Counter counts from 0 to Target, one increment per Period
type Counter struct {
	Name   string
	Target int
	Period time.Duration
}

// Next returns the value after v: one more, capped at Target
func (c Counter) Next(v int) int {
	if v >= c.Target {
		return c.Target
	}
	return v + 1
}

// Frames returns every value the counter shows, 0 through Target.
// Negative targets are treated as zero.
func (c Counter) Frames() []int {
	target := max(c.Target, 0)
	frames := make([]int, 0, target+1)
	for v := 0; ; v = c.Next(v) {
		frames = append(frames, v)
		if v >= target {
			break
		}
	}
	return frames
}

// Duration is the wall-clock time the counter takes to reach Target
func (c Counter) Duration() time.Duration {
	return time.Duration(max(c.Target, 0)) * c.Period
}

// StatisticsCounters returns the about page counters.
// Periods are scaled per counter so that small targets do not finish instantly.
func StatisticsCounters(stats types.Statistics) []Counter {
	return []Counter{
		{Name: "projects", Target: stats.Projects, Period: BasePeriod},
		{Name: "experience", Target: stats.Experience, Period: BasePeriod * 10},
		{Name: "clients", Target: stats.Clients, Period: BasePeriod * 2},
	}
}

// EmitFunc receives each value a counter shows
type EmitFunc func(name string, value int)

// Run emits 0 immediately and then one increment per tick until Target is reached.
// It returns ctx.Err() if cancelled before finishing.
func Run(ctx context.Context, c Counter, emit EmitFunc) error {
	if c.Period <= 0 {
		return fmt.Errorf("counter %s: period must be positive, got %v", c.Name, c.Period)
	}

	value := 0
	emit(c.Name, value)
	if value >= c.Target {
		return nil
	}

	ticker := time.NewTicker(c.Period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			value = c.Next(value)
			emit(c.Name, value)
			if value >= c.Target {
				return nil
			}
		}
	}
}

// RunAll runs every counter concurrently. emit calls are serialised.
// The first error cancels the remaining counters.
func RunAll(ctx context.Context, counters []Counter, emit EmitFunc) error {
	var mu sync.Mutex
	serial := func(name string, value int) {
		mu.Lock()
		defer mu.Unlock()
		emit(name, value)
	}

	g, gCtx := errgroup.WithContext(ctx)
	for _, c := range counters {
		g.Go(func() error {
			return Run(gCtx, c, serial)
		})
	}
	return g.Wait()
}
