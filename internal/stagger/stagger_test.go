package stagger

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitDone(t *testing.T, s *Sequencer) {
	t.Helper()
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("sequencer did not finish")
	}
}

func TestOffsets(t *testing.T) {
	offsets := Offsets(4, PortfolioProjects)
	assert.Equal(t, []time.Duration{
		300 * time.Millisecond,
		450 * time.Millisecond,
		600 * time.Millisecond,
		750 * time.Millisecond,
	}, offsets)

	assert.Empty(t, Offsets(0, FeaturedProjects))
	assert.Equal(t, 700*time.Millisecond, FeaturedProjects.Delay(2))
}

func TestSequencer_RevealsInListOrder(t *testing.T) {
	var mu sync.Mutex
	var seen []int
	s := NewSequencer(Timing{Base: time.Millisecond, Step: time.Millisecond}, func(id int) {
		mu.Lock()
		seen = append(seen, id)
		mu.Unlock()
	})

	ids := []int{7, 3, 9, 1}
	s.Start(ids)
	waitDone(t, s)

	assert.Equal(t, ids, s.Revealed())
	mu.Lock()
	assert.Equal(t, ids, seen)
	mu.Unlock()
	assert.True(t, s.IsRevealed(9))
}

func TestSequencer_ZeroStepKeepsOrder(t *testing.T) {
	s := NewSequencer(Timing{}, nil)
	ids := []int{5, 4, 3, 2, 1}

	s.Start(ids)
	waitDone(t, s)

	assert.Equal(t, ids, s.Revealed())
}

func TestSequencer_StopCancelsPending(t *testing.T) {
	s := NewSequencer(Timing{Base: 0, Step: time.Hour}, nil)

	s.Start([]int{1, 2, 3})
	require.Eventually(t, func() bool { return s.IsRevealed(1) }, time.Second, time.Millisecond)

	s.Stop()
	waitDone(t, s)

	assert.Equal(t, []int{1}, s.Revealed())
}

func TestSequencer_RestartDropsStaleSchedule(t *testing.T) {
	s := NewSequencer(Timing{Base: 20 * time.Millisecond, Step: 20 * time.Millisecond}, nil)

	s.Start([]int{1, 2, 3, 4})
	s.Start([]int{8, 9})
	waitDone(t, s)

	// Give any timer of the first run a chance to misfire
	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, []int{8, 9}, s.Revealed())
}

func TestSequencer_EmptyList(t *testing.T) {
	s := NewSequencer(FeaturedProjects, nil)

	s.Start(nil)
	waitDone(t, s)
	assert.Empty(t, s.Revealed())
}

func TestSequencer_IdleIsDone(t *testing.T) {
	s := NewSequencer(FeaturedProjects, nil)
	waitDone(t, s)
	s.Stop()
}
