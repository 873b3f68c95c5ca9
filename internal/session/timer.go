package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultTickInterval is the real-time length of one countdown step.
const DefaultTickInterval = time.Second

// Timer is a one-way countdown. Its state is written by the ticking goroutine
// and read from the session loop through atomics.
type Timer struct {
	interval time.Duration

	mu        sync.Mutex
	remaining atomic.Int64
	expired   atomic.Bool
	stopped   bool
	started   bool
	stopCh    chan struct{}

	ticks chan int
}

// NewTimer returns a Timer that expires after timeoutSeconds ticks.
func NewTimer(timeoutSeconds int, interval time.Duration) *Timer {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	t := &Timer{
		interval: interval,
		stopCh:   make(chan struct{}),
		ticks:    make(chan int, 1),
	}
	t.remaining.Store(int64(timeoutSeconds))
	if timeoutSeconds <= 0 {
		t.remaining.Store(0)
		t.expired.Store(true)
	}
	return t
}

// Start launches the ticking goroutine. It runs until the timer expires, Stop
// is called, or ctx is done. Subsequent calls are no-ops.
func (t *Timer) Start(ctx context.Context) {
	t.mu.Lock()
	if t.started || t.stopped {
		t.mu.Unlock()
		return
	}
	t.started = true
	t.mu.Unlock()

	go t.run(ctx)
}

func (t *Timer) run(ctx context.Context) {
	defer close(t.ticks)
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.stopCh:
			return
		case <-ticker.C:
			t.Tick()
			if t.Expired() {
				return
			}
		}
	}
}

// Tick advances the countdown by one second. It has no effect once the timer
// has expired or been stopped.
func (t *Timer) Tick() {
	t.mu.Lock()
	if t.stopped || t.expired.Load() {
		t.mu.Unlock()
		return
	}
	left := t.remaining.Add(-1)
	if left <= 0 {
		t.remaining.Store(0)
		left = 0
		t.expired.Store(true)
	}
	t.mu.Unlock()
	t.publish(int(left))
}

// publish keeps only the latest remaining value in the buffer.
func (t *Timer) publish(left int) {
	select {
	case t.ticks <- left:
		return
	default:
	}
	select {
	case <-t.ticks:
	default:
	}
	select {
	case t.ticks <- left:
	default:
	}
}

// Stop freezes the countdown. Remaining() no longer changes afterwards.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.stopped = true
	close(t.stopCh)
}

// Remaining returns the seconds left on the countdown.
func (t *Timer) Remaining() int {
	return int(t.remaining.Load())
}

// Expired reports whether the countdown reached zero. Once true it stays true.
func (t *Timer) Expired() bool {
	return t.expired.Load()
}

// Ticks delivers the remaining seconds after each tick. The channel is closed
// when the ticking goroutine exits; it is never closed if Start was not called.
func (t *Timer) Ticks() <-chan int {
	return t.ticks
}
