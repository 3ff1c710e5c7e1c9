package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/ripple/pkg/errors"
)

func newTestScheduler() (*Scheduler, *ManualFrames) {
	frames := &ManualFrames{}
	return New(frames), frames
}

func TestSchedule_RunsOnNextFrame(t *testing.T) {
	s, frames := newTestScheduler()
	ran := 0
	s.Schedule(func() { ran++ }, nil)

	if ran != 0 {
		t.Fatal("job ran before the frame")
	}
	if !frames.Requested() {
		t.Fatal("expected a frame request")
	}
	frames.Tick()
	if ran != 1 {
		t.Errorf("ran = %d, want 1", ran)
	}
	if frames.Requested() {
		t.Error("no frame should be requested after the flush")
	}
}

func TestSchedule_FIFOWithinFlush(t *testing.T) {
	s, frames := newTestScheduler()
	var order []string
	for _, name := range []string{"a", "b", "c"} {
		s.Schedule(func() { order = append(order, name) }, name)
	}
	frames.Tick()

	if diff := cmp.Diff([]string{"a", "b", "c"}, order); diff != "" {
		t.Errorf("flush order mismatch (-want +got):\n%s", diff)
	}
}

func TestSchedule_SingleFrameRequest(t *testing.T) {
	requests := 0
	s := New(framesFunc(func(func()) { requests++ }))
	s.Schedule(func() {}, nil)
	s.Schedule(func() {}, nil)
	s.Schedule(func() {}, nil)

	if requests != 1 {
		t.Errorf("frame requests = %d, want 1", requests)
	}
}

func TestOnce_DeduplicatesByFunctionAndContext(t *testing.T) {
	s, frames := newTestScheduler()
	type target struct{ n int }
	a, b := &target{}, &target{}
	bump := func(tg *target) func() { return func() { tg.n++ } }

	id1 := s.Once(bump(a), a)
	id2 := s.Once(bump(a), a)
	id3 := s.Once(bump(b), b)

	if id1 != id2 {
		t.Errorf("Once returned %d then %d, want the same job", id1, id2)
	}
	if id1 == id3 {
		t.Error("different contexts must not share a job")
	}
	if s.Pending() != 2 {
		t.Errorf("Pending() = %d, want 2", s.Pending())
	}

	frames.Tick()
	if a.n != 1 || b.n != 1 {
		t.Errorf("runs = (%d, %d), want (1, 1)", a.n, b.n)
	}
}

func TestOnce_ReferenceContexts(t *testing.T) {
	s, frames := newTestScheduler()
	runs := 0
	job := func() { runs++ }
	m1, m2 := map[string]any{}, map[string]any{}
	items := []int{1, 2}

	first := s.Once(job, m1)
	if first == 0 {
		t.Fatal("a map context should be accepted")
	}
	if got := s.Once(job, m1); got != first {
		t.Errorf("same map: Once = %d, want %d", got, first)
	}
	if got := s.Once(job, m2); got == first {
		t.Error("a different map must not share a job")
	}
	if s.Once(job, items) == 0 {
		t.Error("a slice context should be accepted")
	}
	if s.Once(job, items[:1]) == s.Once(job, items) {
		t.Error("slices of different length must not share a job")
	}

	frames.Tick()
	if runs != 4 {
		t.Errorf("runs = %d, want 4", runs)
	}
}

func TestSchedule_RejectsUncomparableContext(t *testing.T) {
	s, frames := newTestScheduler()
	type holder struct{ items []int }
	ran := false

	if id := s.Once(func() { ran = true }, holder{items: []int{1}}); id != 0 {
		t.Errorf("Once = %d, want 0", id)
	}
	if id := s.Schedule(func() { ran = true }, holder{}); id != 0 {
		t.Errorf("Schedule = %d, want 0", id)
	}
	if s.Pending() != 0 || frames.Requested() {
		t.Error("a rejected job must not be queued")
	}
	frames.Tick()
	if ran {
		t.Error("a rejected job must not run")
	}
}

func TestCancel(t *testing.T) {
	s, frames := newTestScheduler()
	ran := false
	id := s.Once(func() { ran = true }, "ctx")
	s.Cancel(id)
	s.Cancel(id)
	s.Cancel(9999)
	frames.Tick()

	if ran {
		t.Error("cancelled job ran")
	}
	if s.IsPending(id) {
		t.Error("cancelled job still pending")
	}

	// A cancelled key can be scheduled again.
	s.Once(func() { ran = true }, "ctx")
	frames.Tick()
	if !ran {
		t.Error("job scheduled after cancel did not run")
	}
}

func TestCancel_DuringFlush(t *testing.T) {
	s, frames := newTestScheduler()
	ran := false
	var second JobID
	s.Schedule(func() { s.Cancel(second) }, "first")
	second = s.Schedule(func() { ran = true }, "second")
	frames.Tick()

	if ran {
		t.Error("job cancelled by an earlier job in the same flush ran")
	}
}

func TestScheduleDuringFlush_DeferredToNextFrame(t *testing.T) {
	s, frames := newTestScheduler()
	var order []string
	s.Schedule(func() {
		order = append(order, "outer")
		s.Schedule(func() { order = append(order, "inner") }, nil)
	}, nil)

	frames.Tick()
	if diff := cmp.Diff([]string{"outer"}, order); diff != "" {
		t.Fatalf("first flush mismatch (-want +got):\n%s", diff)
	}
	if !frames.Requested() {
		t.Fatal("expected a frame for the nested job")
	}
	frames.Tick()
	if diff := cmp.Diff([]string{"outer", "inner"}, order); diff != "" {
		t.Errorf("second flush mismatch (-want +got):\n%s", diff)
	}
}

func TestFlushNow_RunsAfterQueuedJobs(t *testing.T) {
	s, frames := newTestScheduler()
	var order []string
	s.Schedule(func() { order = append(order, "job") }, nil)
	s.FlushNow(func() { order = append(order, "done") })
	frames.Tick()

	if diff := cmp.Diff([]string{"job", "done"}, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestFlush_RecoversPanics(t *testing.T) {
	var captured *errors.PanicError
	errors.SetHandler(&panicCapture{fn: func(p *errors.PanicError) { captured = p }})
	defer errors.SetHandler(nil)

	s, frames := newTestScheduler()
	ran := false
	s.Schedule(func() { panic("bad job") }, nil)
	s.Schedule(func() { ran = true }, nil)
	frames.Tick()

	if captured == nil || captured.Op != "scheduler.Flush" {
		t.Fatalf("captured = %+v, want a scheduler.Flush panic", captured)
	}
	if !ran {
		t.Error("job after a panicking job should still run")
	}
}

func TestFlush_PanicsGoToReporter(t *testing.T) {
	var global, scoped []*errors.PanicError
	errors.SetHandler(&panicCapture{fn: func(p *errors.PanicError) { global = append(global, p) }})
	defer errors.SetHandler(nil)

	frames := &ManualFrames{}
	reporter := errors.NewReporter(&panicCapture{fn: func(p *errors.PanicError) { scoped = append(scoped, p) }})
	s := New(frames, WithReporter(reporter))
	if s.Reporter() != reporter {
		t.Fatal("Reporter() should return the configured reporter")
	}
	s.Schedule(func() { panic("scoped job") }, nil)
	frames.Tick()

	if len(scoped) != 1 || scoped[0].Value != "scoped job" {
		t.Errorf("reporter saw %v, want one scoped job panic", scoped)
	}
	if len(global) != 0 {
		t.Errorf("process handler saw %d panics, want 0", len(global))
	}
}

func TestOnFlush(t *testing.T) {
	s, frames := newTestScheduler()
	var counts []int
	s.OnFlush = func(n int) { counts = append(counts, n) }
	s.Schedule(func() {}, nil)
	id := s.Schedule(func() {}, nil)
	s.Cancel(id)
	frames.Tick()

	if diff := cmp.Diff([]int{1}, counts); diff != "" {
		t.Errorf("flush counts mismatch (-want +got):\n%s", diff)
	}
}

func TestManualFrames_Settle(t *testing.T) {
	s, frames := newTestScheduler()
	depth := 0
	var again func()
	again = func() {
		depth++
		if depth < 3 {
			s.Schedule(again, nil)
		}
	}
	s.Schedule(again, nil)

	if n := frames.Settle(10); n != 3 {
		t.Errorf("Settle ran %d frames, want 3", n)
	}
	if frames.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", frames.Frames())
	}
}

func TestFrameLoop_RunsFlushAndDispatch(t *testing.T) {
	loop := NewFrameLoop(time.Millisecond)
	s := New(loop)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	loop.Dispatch(func() {
		s.Schedule(func() {
			close(done)
		}, nil)
	})

	errc := make(chan error, 1)
	go func() { errc <- loop.Run(ctx) }()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("flush did not run")
	}
	cancel()
	if err := <-errc; err != context.Canceled {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
}

func TestNewFrameLoop_DefaultInterval(t *testing.T) {
	if got := NewFrameLoop(0).Interval(); got != DefaultFrameInterval {
		t.Errorf("Interval() = %v, want %v", got, DefaultFrameInterval)
	}
}

type framesFunc func(func())

func (f framesFunc) RequestFrame(flush func()) { f(flush) }

type panicCapture struct {
	fn func(*errors.PanicError)
}

func (p *panicCapture) HandleError(*errors.RippleError) {}

func (p *panicCapture) HandlePanic(err *errors.PanicError) { p.fn(err) }
