// Package scheduler batches deferred work into frames.
//
// A Scheduler queues jobs and asks its Frames host for a single flush. When
// the host runs the flush, every job queued before the flush started runs
// once, in submission order. Jobs queued while a flush is running wait for
// the next frame, so a flush never drains an unbounded chain of work.
//
// Jobs are keyed by the identity of their function plus a context value.
// Once returns the pending job for a key instead of queueing a duplicate,
// which is how bindings collapse many change notifications into one render:
//
//	sched := scheduler.New(frames)
//	sched.Once(b.render, b) // queued
//	sched.Once(b.render, b) // same job, nothing queued
//
// Scheduling is not reentrant from other goroutines in a meaningful way:
// callers are expected to run on the goroutine that drives the frames.
// FrameLoop.Dispatch exists to move work onto that goroutine.
package scheduler
