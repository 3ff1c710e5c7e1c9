package core

import "sync"

// lifecycle tracks destruction and the cleanup functions registered with
// OnDispose.
type lifecycle struct {
	disposers  []func()
	destroying bool
	destroyed  bool
	mu         sync.Mutex
}

// OnDispose registers a cleanup function to run when the instance is
// destroyed. Cleanups run once, in reverse registration order, after the
// bindings and children are gone. Returns a function that unregisters the
// cleanup. On a destroyed instance the cleanup runs immediately.
func (l *lifecycle) OnDispose(cleanup func()) func() {
	if cleanup == nil {
		return func() {}
	}

	l.mu.Lock()
	if l.destroyed {
		l.mu.Unlock()
		cleanup()
		return func() {}
	}
	index := len(l.disposers)
	l.disposers = append(l.disposers, cleanup)
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if index < len(l.disposers) {
			l.disposers[index] = nil
		}
	}
}

// Destroyed reports whether destruction has started.
func (l *lifecycle) Destroyed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.destroying
}

// markDestroying flips the instance into destruction and reports whether
// this call did so.
func (l *lifecycle) markDestroying() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.destroying {
		return false
	}
	l.destroying = true
	return true
}

// runDisposers executes the registered disposers in LIFO order.
func (l *lifecycle) runDisposers() {
	l.mu.Lock()
	if l.destroyed {
		l.mu.Unlock()
		return
	}
	l.destroyed = true
	disposers := l.disposers
	l.disposers = nil
	l.mu.Unlock()

	for i := len(disposers) - 1; i >= 0; i-- {
		if disposers[i] != nil {
			disposers[i]()
		}
	}
}
