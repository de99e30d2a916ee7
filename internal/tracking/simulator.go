package tracking

import (
	"context"
	"iter"
	"sync"
	"time"
)

const (
	DefaultStride   = 5
	DefaultInterval = 50 * time.Millisecond
)

// Tick reports the marker position after one interval.
type Tick struct {
	N        int // ticks since start, from 1
	Index    int
	Position Coordinate
	Done     bool // the marker reached the destination
}

var closedChan = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Simulator walks a route by a fixed stride on a single ticker.
// One run is active at a time; Start again restarts from the origin.
type Simulator struct {
	stride   int
	interval time.Duration

	// lifecycle serializes Start and Stop so a run is never installed
	// while another is being replaced.
	lifecycle sync.Mutex

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSimulator creates a simulator. Non-positive values fall back to the defaults.
func NewSimulator(stride int, interval time.Duration) *Simulator {
	if stride <= 0 {
		stride = DefaultStride
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Simulator{stride: stride, interval: interval, done: closedChan}
}

// Start stops any run in progress and begins walking route, calling onTick
// from the simulator goroutine. The run ends when the last point is reached,
// on Stop, or when ctx is cancelled. onTick must not call Stop or Start.
func (s *Simulator) Start(ctx context.Context, route Route, onTick func(Tick)) error {
	if len(route) == 0 {
		return ErrEmptyRoute
	}

	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	s.stop()

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	s.mu.Lock()
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	go s.run(runCtx, cancel, route, onTick, done)
	return nil
}

func (s *Simulator) run(ctx context.Context, cancel context.CancelFunc, route Route, onTick func(Tick), done chan struct{}) {
	defer close(done)
	defer cancel()

	if len(route) == 1 {
		return
	}

	next, stop := iter.Pull2(Positions(route, s.stride))
	defer stop()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	last := len(route) - 1
	for n := 1; ; n++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		idx, pos, ok := next()
		if !ok {
			return
		}

		tick := Tick{N: n, Index: idx, Position: pos, Done: idx == last}
		if onTick != nil {
			onTick(tick)
		}
		if tick.Done {
			return
		}
	}
}

// Stop cancels the current run and waits for it to exit.
func (s *Simulator) Stop() {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	s.stop()
}

func (s *Simulator) stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Done returns a channel closed when the current run ends.
func (s *Simulator) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Running reports whether a run is in progress.
func (s *Simulator) Running() bool {
	select {
	case <-s.Done():
		return false
	default:
		return true
	}
}
