package scheduler

import (
	"context"
	"sync"
	"time"
)

// DefaultFrameInterval approximates a 60Hz display.
const DefaultFrameInterval = 16 * time.Millisecond

// ManualFrames is a Frames host that only flushes when told to. Tests use it
// to step the scheduler deterministically.
type ManualFrames struct {
	mu      sync.Mutex
	pending func()
	frames  int
}

// RequestFrame records flush to run on the next Tick.
func (m *ManualFrames) RequestFrame(flush func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = flush
}

// Requested reports whether a frame is waiting.
func (m *ManualFrames) Requested() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending != nil
}

// Frames returns the number of frames that have run.
func (m *ManualFrames) Frames() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frames
}

// Tick runs the requested frame, if any, and reports whether one ran.
func (m *ManualFrames) Tick() bool {
	m.mu.Lock()
	flush := m.pending
	m.pending = nil
	if flush != nil {
		m.frames++
	}
	m.mu.Unlock()

	if flush == nil {
		return false
	}
	flush()
	return true
}

// Settle ticks until no frame is requested or max frames have run.
// It returns the number of frames that ran.
func (m *ManualFrames) Settle(max int) int {
	n := 0
	for n < max && m.Tick() {
		n++
	}
	return n
}

// FrameLoop drives flushes from a ticker on a single goroutine. Work coming
// from other goroutines must go through Dispatch so that scheduling and
// flushing stay on the loop goroutine.
type FrameLoop struct {
	interval time.Duration

	mu       sync.Mutex
	flush    func()
	dispatch []func()
	wake     chan struct{}
}

// NewFrameLoop creates a loop that ticks every interval. A non-positive
// interval uses DefaultFrameInterval.
func NewFrameLoop(interval time.Duration) *FrameLoop {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &FrameLoop{
		interval: interval,
		wake:     make(chan struct{}, 1),
	}
}

// Interval returns the tick interval.
func (l *FrameLoop) Interval() time.Duration {
	return l.interval
}

// RequestFrame records flush for the next tick.
func (l *FrameLoop) RequestFrame(flush func()) {
	l.mu.Lock()
	l.flush = flush
	l.mu.Unlock()
}

// Dispatch queues callback to run on the loop goroutine before the next
// flush. It is safe to call from any goroutine.
func (l *FrameLoop) Dispatch(callback func()) {
	if callback == nil {
		return
	}
	l.mu.Lock()
	l.dispatch = append(l.dispatch, callback)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run ticks until ctx is cancelled. Dispatched callbacks run as soon as they
// arrive; the pending flush runs on each tick.
func (l *FrameLoop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
			l.drainDispatch()
		case <-ticker.C:
			l.drainDispatch()
			l.mu.Lock()
			flush := l.flush
			l.flush = nil
			l.mu.Unlock()
			if flush != nil {
				flush()
			}
		}
	}
}

func (l *FrameLoop) drainDispatch() {
	l.mu.Lock()
	callbacks := append([]func(){}, l.dispatch...)
	l.dispatch = nil
	l.mu.Unlock()
	for _, cb := range callbacks {
		cb()
	}
}
