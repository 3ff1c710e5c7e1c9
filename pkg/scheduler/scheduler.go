package scheduler

import (
	"reflect"
	"sync"

	"github.com/go-drift/ripple/pkg/errors"
)

// JobID identifies a scheduled job. The zero JobID is never issued.
type JobID uint64

// Frames is the host's frame-timing primitive. RequestFrame asks the host to
// call flush on the next frame. The Scheduler never has more than one
// request outstanding.
type Frames interface {
	RequestFrame(flush func())
}

type jobKey struct {
	fn  uintptr
	ctx any
}

type job struct {
	id        JobID
	key       jobKey
	keyed     bool
	fn        func()
	cancelled bool
}

// Scheduler coalesces deferred work into frame-sized flushes.
type Scheduler struct {
	frames  Frames
	queue   []*job
	byID    map[JobID]*job
	byKey   map[jobKey]*job
	nextID  JobID
	pending bool
	mu      sync.Mutex

	reporter *errors.Reporter

	// OnFlush is called after each flush with the number of jobs that ran.
	OnFlush func(ran int)
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithReporter routes panics recovered from jobs to r instead of the
// process-wide error handler.
func WithReporter(r *errors.Reporter) Option {
	return func(s *Scheduler) { s.reporter = r }
}

// New creates a Scheduler driven by frames. A nil frames uses ManualFrames.
func New(frames Frames, opts ...Option) *Scheduler {
	if frames == nil {
		frames = &ManualFrames{}
	}
	s := &Scheduler{
		frames: frames,
		byID:   make(map[JobID]*job),
		byKey:  make(map[jobKey]*job),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reporter returns the reporter job panics go to. It is nil when panics go
// to the process-wide handler.
func (s *Scheduler) Reporter() *errors.Reporter {
	return s.reporter
}

// Frames returns the host primitive driving this scheduler.
func (s *Scheduler) Frames() Frames {
	return s.frames
}

// Schedule queues fn for the next frame. ctx is recorded as part of the
// job's identity for Once. Maps, slices and funcs are identified by
// reference; any other ctx that cannot be compared is rejected with the
// zero JobID.
func (s *Scheduler) Schedule(fn func(), ctx any) JobID {
	if fn == nil {
		return 0
	}
	key, ok := keyOf(fn, ctx)
	if !ok {
		return 0
	}
	return s.enqueue(fn, key, false)
}

// Once queues fn unless a job with the same function and context is
// already pending, in which case the pending job's id is returned.
func (s *Scheduler) Once(fn func(), ctx any) JobID {
	if fn == nil {
		return 0
	}
	key, ok := keyOf(fn, ctx)
	if !ok {
		return 0
	}
	s.mu.Lock()
	if j, ok := s.byKey[key]; ok {
		s.mu.Unlock()
		return j.id
	}
	s.mu.Unlock()
	return s.enqueue(fn, key, true)
}

// FlushNow queues callback behind every job that is currently pending.
func (s *Scheduler) FlushNow(callback func()) JobID {
	return s.Schedule(callback, nil)
}

// Cancel removes a pending job. Cancelling a job that already ran, or an
// unknown id, does nothing.
func (s *Scheduler) Cancel(id JobID) {
	if id == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.byID[id]
	if !ok {
		return
	}
	j.cancelled = true
	delete(s.byID, id)
	if j.keyed && s.byKey[j.key] == j {
		delete(s.byKey, j.key)
	}
}

// Pending returns the number of jobs waiting for the next flush.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// IsPending reports whether the job is still waiting to run.
func (s *Scheduler) IsPending(id JobID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byID[id]
	return ok
}

func (s *Scheduler) enqueue(fn func(), key jobKey, keyed bool) JobID {
	id, request := func() (JobID, bool) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.nextID++
		j := &job{id: s.nextID, key: key, keyed: keyed, fn: fn}
		s.queue = append(s.queue, j)
		s.byID[j.id] = j
		if keyed {
			s.byKey[key] = j
		}
		if s.pending {
			return j.id, false
		}
		s.pending = true
		return j.id, true
	}()

	if request {
		s.frames.RequestFrame(s.Flush)
	}
	return id
}

// Flush runs every job queued before the call, in submission order. Jobs
// queued by those jobs wait for the following frame. A job cancelled by an
// earlier job in the same flush does not run.
func (s *Scheduler) Flush() {
	s.mu.Lock()
	batch := s.queue
	s.queue = nil
	s.pending = false
	s.mu.Unlock()

	ran := 0
	for _, j := range batch {
		if !s.take(j) {
			continue
		}
		s.run(j)
		ran++
	}

	if s.OnFlush != nil {
		s.OnFlush(ran)
	}
}

// take removes j from the pending indexes, reporting false if it was cancelled.
func (s *Scheduler) take(j *job) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j.cancelled {
		return false
	}
	delete(s.byID, j.id)
	if j.keyed && s.byKey[j.key] == j {
		delete(s.byKey, j.key)
	}
	return true
}

func (s *Scheduler) run(j *job) {
	defer s.reporter.Recover("scheduler.Flush")
	j.fn()
}

// refKey stands in for a ctx that cannot be a map key itself.
type refKey struct {
	typ reflect.Type
	ptr uintptr
	len int
}

// keyOf derives the identity of a job. Closures created from the same
// function literal share a code pointer, so ctx disambiguates them.
func keyOf(fn func(), ctx any) (jobKey, bool) {
	key := jobKey{fn: reflect.ValueOf(fn).Pointer()}
	if ctx == nil {
		return key, true
	}
	v := reflect.ValueOf(ctx)
	if v.Comparable() {
		key.ctx = ctx
		return key, true
	}
	switch v.Kind() {
	case reflect.Map, reflect.Func:
		key.ctx = refKey{typ: v.Type(), ptr: v.Pointer()}
	case reflect.Slice:
		key.ctx = refKey{typ: v.Type(), ptr: v.Pointer(), len: v.Len()}
	default:
		return key, false
	}
	return key, true
}
